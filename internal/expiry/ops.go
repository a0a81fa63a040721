package expiry

import (
	"context"
	"time"
)

// Init constructs an Actor, starts its loop in a dedicated goroutine,
// and returns the handle. Callers own the handle explicitly; nothing
// in this package keeps a process-wide singleton actor pointer.
func Init(ctx context.Context, locate Locator, refs RefCounter, persist MetadataPersister, stats StatsSink, log LogSink, opts ...ActorOption) *Actor {
	a := NewActor(locate, refs, persist, stats, log, opts...)
	go a.Run(ctx)
	return a
}

// Inject records a pre-computed wake time and hands oc to the actor,
// for a caller that already knows when oc should wake (e.g. restoring
// a timer from persisted metadata after a restart) and so has no need
// for Insert's Deadline() derivation. Reference ownership transfers
// in: the caller must already hold a reference to oc, and it becomes
// the actor's. The caller must also have already registered oc with
// whatever Locator the Actor uses, so a later Locate(oc) call from
// Inbox resolves to lru; Inject itself only touches the LRU struct to
// take its mutex, not to register ownership.
func (a *Actor) Inject(oc *Core, lru *LRU, when time.Time) {
	lru.mu.Lock()
	oc.setFlags(OffLRU | Insert)
	oc.timerWhen = when
	lru.mu.Unlock()

	a.Mail(oc)
}

// Insert is Inject plus deriving when from the object's own timers,
// persisting metadata, and taking a fresh reference.
func (a *Actor) Insert(oc *Core, now time.Time) {
	when, ok := oc.Head.Deadline()
	if !ok {
		invariantViolation("Insert called with a non-finite deadline")
	}

	a.refs.Ref(oc)
	if a.persist != nil {
		a.persist.PersistTimer(oc, when)
	}

	lru := a.locate.Locate(oc)
	lru.mu.Lock()
	oc.setFlags(OffLRU | Insert)
	oc.timerWhen = when
	oc.lastLRU = now
	lru.mu.Unlock()

	a.Mail(oc)
}

// Touch asks oc's LRU to move it to the tail, best-effort, delegating
// to LRU.Touch's try-lock discipline.
func (a *Actor) Touch(oc *Core, now time.Time) error {
	return a.locate.Locate(oc).Touch(oc, now)
}

// Rearm recomputes oc's wake time and reschedules it. A negative or
// non-finite effective wake marks the object DYING instead of moving
// it.
func (a *Actor) Rearm(oc *Core) {
	when, ok := oc.Head.Deadline()

	lru := a.locate.Locate(oc)
	lru.mu.Lock()

	if ok && when.Equal(oc.timerWhen) {
		lru.mu.Unlock()
		return
	}

	if ok {
		oc.setFlags(Move)
	} else {
		oc.setFlags(Dying)
	}

	if oc.hasFlags(OffLRU) {
		// Already in flight to the mailbox; a prior mail will redo
		// this computation on arrival.
		lru.mu.Unlock()
		return
	}

	lru.Unlink(oc)
	lru.mu.Unlock()

	a.Mail(oc)
}

// NukeOne reclaims one object from lru to make room for a new
// fetch.
func (a *Actor) NukeOne(lru *LRU) error {
	return lru.NukeOne()
}
