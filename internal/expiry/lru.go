package expiry

import (
	"container/list"
	"sync"
	"time"
)

// Mailer hands an OC to the expiry actor's mailbox. Implemented by
// *Actor; split out as an interface so LRU doesn't need the actor's
// full surface, only the one method NukeOne calls to hand off a
// reclaimed candidate.
type Mailer interface {
	Mail(oc *Core)
}

// LRU is one per-storage-domain recency list. Least recently used
// sits at the head; Touch moves an entry to the tail. DontMove
// disables recency reordering entirely for backends where it would be
// pointless (e.g. a backend with no real notion of hot/cold data).
type LRU struct {
	mu       sync.Mutex
	list     *list.List
	DontMove bool

	// MaxScan caps NukeOne's head-to-tail scan; 0 means unbounded.
	// Bounds the latency of a reclaim attempt against a domain full of
	// busy or multiply-referenced objects that can never be evicted.
	MaxScan int

	mailer Mailer
	refs   RefCounter
	stats  StatsSink
}

// NewLRU constructs an empty LRU set wired to the actor's mailbox and
// the shared reference-counting/stats collaborators.
func NewLRU(mailer Mailer, refs RefCounter, stats StatsSink) *LRU {
	return &LRU{
		list:   list.New(),
		mailer: mailer,
		refs:   refs,
		stats:  stats,
	}
}

// Link appends oc to the tail (most-recent). Requires OffLRU set on
// entry; clears it on exit.
func (l *LRU) Link(oc *Core) {
	if !oc.hasFlags(OffLRU) {
		invariantViolation("Link called on an OC already linked")
	}
	oc.lruElem = l.list.PushBack(oc)
	oc.clearFlags(OffLRU)
}

// Unlink removes oc from wherever it currently sits in this list and
// sets OffLRU.
func (l *LRU) Unlink(oc *Core) {
	if oc.lruElem != nil {
		l.list.Remove(oc.lruElem)
		oc.lruElem = nil
	}
	oc.setFlags(OffLRU)
}

// Touch moves oc to the tail if it can do so without blocking. It
// deliberately prefers an imperfectly sorted list over contention:
// DONTMOVE short-circuits, and a failed try-lock is a silent no-op.
func (l *LRU) Touch(oc *Core, now time.Time) error {
	if l.DontMove {
		return ErrNoOp
	}
	if !l.mu.TryLock() {
		return ErrNoOp
	}
	defer l.mu.Unlock()

	if oc.hasFlags(OffLRU) {
		// Not currently linked (in flight to/from the mailbox); nothing to move.
		return ErrNoOp
	}
	l.list.MoveToBack(oc.lruElem)
	oc.lastLRU = now
	if l.stats != nil {
		l.stats.IncLRUMoved()
	}
	return nil
}

// NukeOne scans from head to tail for the first reclaimable OC: not
// BUSY, refcnt==1, and whose object-head mutex can be acquired without
// blocking. It mails the winner to the actor as a DYING object and
// reports success, or ErrCannotReclaim if nothing qualifies. This is
// the only space-pressure entry point.
func (l *LRU) NukeOne() error {
	l.mu.Lock()

	var scanned int
	capped := false
	for e := l.list.Front(); e != nil; e = e.Next() {
		if l.MaxScan > 0 && scanned >= l.MaxScan {
			capped = true
			break
		}
		scanned++

		oc := e.Value.(*Core)
		if oc.IsBusy() {
			continue
		}
		if oc.refCount() != 1 {
			continue
		}
		if !oc.Head.TryLock() {
			continue
		}

		oc.setFlags(Dying | OffLRU)
		oc.addRef(1) // donate a reference to the actor mail.
		l.list.Remove(e)
		oc.lruElem = nil
		oc.Head.Unlock()
		l.mu.Unlock()

		l.mailer.Mail(oc)
		l.refs.Deref(oc) // release the outside caller's reference.
		if l.stats != nil {
			l.stats.IncLRUNuked()
		}
		return nil
	}

	l.mu.Unlock()
	if capped && l.stats != nil {
		l.stats.IncNukeCapped()
	}
	return ErrCannotReclaim
}

// Len reports how many OCs currently sit in this LRU list. Exposed
// for tests and stats.
func (l *LRU) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.list.Len()
}
