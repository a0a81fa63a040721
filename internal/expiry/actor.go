package expiry

import (
	"context"
	"sync"
	"time"
)

const (
	defaultNap       = 60 * time.Second // a long, finite, cosmetic nap when the heap is empty.
	defaultBusyRetry = 10 * time.Millisecond
	defaultRaceRetry = 1 * time.Millisecond
)

// ActorOption configures an Actor at construction time with the
// functional-options pattern, so tests can override the clock or nap
// interval without widening NewActor's signature.
type ActorOption func(*Actor)

// WithClock overrides the actor's notion of "now", for deterministic
// tests that want to drive the wheel without sleeping.
func WithClock(now func() time.Time) ActorOption {
	return func(a *Actor) { a.now = now }
}

// WithNapInterval overrides the long, cosmetic nap Expire returns when
// its heap is empty.
func WithNapInterval(d time.Duration) ActorOption {
	return func(a *Actor) { a.nap = d }
}

// Actor is the single, dedicated task that owns the heap and drains
// the mailbox. It is the only agent that inserts into, reorders, or
// removes entries from the heap; every other goroutine reaches the
// heap only indirectly, by mailing an OC to the actor.
type Actor struct {
	mu     sync.Mutex
	mbox   *mailbox
	heap   timerHeap
	signal chan struct{} // buffered 1; Mail() pings it non-blockingly.

	locate  Locator
	refs    RefCounter
	persist MetadataPersister
	stats   StatsSink
	log     LogSink

	now func() time.Time
	nap time.Duration

	tnext time.Time // next scheduled wake; zero means "due now".
}

// NewActor wires an Actor to its external collaborators and applies
// the given options. Call Run to start the loop.
func NewActor(locate Locator, refs RefCounter, persist MetadataPersister, stats StatsSink, log LogSink, opts ...ActorOption) *Actor {
	a := &Actor{
		mbox:    newMailbox(),
		signal:  make(chan struct{}, 1),
		locate:  locate,
		refs:    refs,
		persist: persist,
		stats:   stats,
		log:     log,
		now:     time.Now,
		nap:     defaultNap,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Mail implements Mailer. It is the sole way an OC is handed from a
// worker to the actor.
func (a *Actor) Mail(oc *Core) {
	a.mu.Lock()
	a.mbox.mail(oc)
	a.mu.Unlock()

	select {
	case a.signal <- struct{}{}:
	default:
	}
}

// Run drives the main loop until ctx is cancelled. Graceful shutdown
// beyond ctx cancellation isn't attempted; termination is
// process-scoped.
func (a *Actor) Run(ctx context.Context) {
	for {
		a.mu.Lock()
		oc := a.mbox.take()
		var wait time.Time
		if oc != nil {
			a.tnext = time.Time{}
		} else {
			t := a.now()
			if a.tnext.After(t) {
				wait = a.tnext
			}
		}
		a.mu.Unlock()

		if oc == nil && !wait.IsZero() {
			if !a.sleepUntil(ctx, wait) {
				return
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		t := a.now()
		if oc != nil {
			a.inbox(oc, t)
			continue
		}

		next := a.expire(t)
		a.mu.Lock()
		a.tnext = next
		a.mu.Unlock()
	}
}

// sleepUntil waits for the earlier of deadline, a mail signal, or
// ctx cancellation. Returns false iff ctx was cancelled. Spurious
// wakes are harmless: the caller's next loop iteration re-evaluates
// the heap root.
func (a *Actor) sleepUntil(ctx context.Context, deadline time.Time) bool {
	d := deadline.Sub(a.now())
	if d < 0 {
		d = 0
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-a.signal:
		return true
	case <-timer.C:
		return true
	}
}

// inbox runs the INSERT/MOVE/DYING transition for a mailed OC.
func (a *Actor) inbox(oc *Core, now time.Time) {
	lru := a.locate.Locate(oc)

	lru.mu.Lock()
	flags := oc.flags
	oc.clearFlags(Insert | Move)
	oc.lastLRU = now
	dying := flags.has(Dying)
	if !dying {
		oc.clearFlags(OffLRU)
		oc.lruElem = lru.list.PushBack(oc)
	}
	lru.mu.Unlock()

	if dying {
		heapDelete(&a.heap, oc)
		a.refs.Deref(oc)
		return
	}

	if flags.has(Move) {
		when, ok := oc.Head.Deadline()
		if !ok {
			// Deadline went non-finite between Rearm and Inbox; the
			// object dies here instead of reordering into the heap.
			lru.mu.Lock()
			lru.Unlink(oc)
			lru.mu.Unlock()
			heapDelete(&a.heap, oc)
			a.refs.Deref(oc)
			return
		}
		oc.timerWhen = when
		if a.persist != nil {
			a.persist.PersistTimer(oc, when)
		}
	}

	if flags.has(Insert) {
		heapInsert(&a.heap, oc)
		return
	}

	if flags.has(Move) {
		heapReorder(&a.heap, oc)
		return
	}

	invariantViolation("mailbox entry had neither INSERT, MOVE, nor DYING set")
}

// expire peeks the heap root and either fires an expiry or reports
// when to wake next.
func (a *Actor) expire(now time.Time) time.Time {
	root := heapPeekRoot(&a.heap)
	if root == nil {
		return now.Add(a.nap)
	}
	if root.timerWhen.After(now) {
		return root.timerWhen
	}
	if root.IsBusy() {
		return now.Add(defaultBusyRetry)
	}

	lru := a.locate.Locate(root)
	lru.mu.Lock()
	root.setFlags(Dying)
	if root.hasFlags(OffLRU) {
		// Another agent already pulled this OC toward the mailbox;
		// back off and let that pending mail resolve state.
		lru.mu.Unlock()
		return now.Add(defaultRaceRetry)
	}
	lru.Unlink(root)
	lru.mu.Unlock()

	heapDelete(&a.heap, root)
	if a.stats != nil {
		a.stats.IncExpired()
	}
	if a.log != nil {
		a.log.Kill(KillEvent{
			OC:          root,
			TimerWhen:   root.timerWhen,
			Flags:       root.snapshotFlags(),
			XID:         root.XID,
			ResidualTTL: now.Sub(root.timerWhen),
		})
	}
	a.refs.Deref(root)
	return time.Time{} // try again immediately; more may be due.
}
