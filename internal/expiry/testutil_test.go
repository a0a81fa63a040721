package expiry

import (
	"sync"
	"time"
)

// fakeHead is a minimal ObjectHead whose deadline the test controls
// directly, standing in for a real object.Object.
type fakeHead struct {
	mu       sync.Mutex
	deadline time.Time
	ok       bool
}

func newFakeHead(deadline time.Time) *fakeHead {
	return &fakeHead{deadline: deadline, ok: true}
}

func (f *fakeHead) Lock()         { f.mu.Lock() }
func (f *fakeHead) TryLock() bool { return f.mu.TryLock() }
func (f *fakeHead) Unlock()       { f.mu.Unlock() }

func (f *fakeHead) Deadline() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deadline, f.ok
}

func (f *fakeHead) setDeadline(d time.Time) {
	f.mu.Lock()
	f.deadline, f.ok = d, true
	f.mu.Unlock()
}

func (f *fakeHead) setDying() {
	f.mu.Lock()
	f.ok = false
	f.mu.Unlock()
}

// fakeLocator is an in-memory Locator/RefCounter double, standing in
// for internal/store.Store in isolated core tests.
type fakeLocator struct {
	mu    sync.Mutex
	owner map[*Core]*LRU
}

func newFakeLocator() *fakeLocator {
	return &fakeLocator{owner: make(map[*Core]*LRU)}
}

func (f *fakeLocator) Locate(oc *Core) *LRU {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.owner[oc]
	if !ok {
		invariantViolation("fakeLocator: unknown OC")
	}
	return l
}

func (f *fakeLocator) put(oc *Core, l *LRU) {
	f.mu.Lock()
	f.owner[oc] = l
	f.mu.Unlock()
}

func (f *fakeLocator) Ref(oc *Core) { oc.IncRef() }

func (f *fakeLocator) Deref(oc *Core) bool {
	n := oc.DecRef()
	if n < 0 {
		invariantViolation("fakeLocator: refcount went negative")
	}
	return n == 0
}

// fakeStats counts every Inc* call.
type fakeStats struct {
	mu                             sync.Mutex
	expired, moved, nuked, capped  int
}

func (s *fakeStats) IncExpired()    { s.mu.Lock(); s.expired++; s.mu.Unlock() }
func (s *fakeStats) IncLRUMoved()   { s.mu.Lock(); s.moved++; s.mu.Unlock() }
func (s *fakeStats) IncLRUNuked()   { s.mu.Lock(); s.nuked++; s.mu.Unlock() }
func (s *fakeStats) IncNukeCapped() { s.mu.Lock(); s.capped++; s.mu.Unlock() }

func (s *fakeStats) snapshot() (expired, moved, nuked, capped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expired, s.moved, s.nuked, s.capped
}

// fakeLog records every Kill event.
type fakeLog struct {
	mu    sync.Mutex
	kills []KillEvent
}

func (l *fakeLog) Kill(ev KillEvent) {
	l.mu.Lock()
	l.kills = append(l.kills, ev)
	l.mu.Unlock()
}

func (l *fakeLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.kills)
}

// fakePersist records every PersistTimer call.
type fakePersist struct {
	mu    sync.Mutex
	calls int
}

func (p *fakePersist) PersistTimer(oc *Core, when time.Time) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
}

// newTestActor builds an Actor plus its fake collaborators, wired the
// way internal/cli.bootstrap wires the real ones.
func newTestActor() (*Actor, *fakeLocator, *fakeStats, *fakeLog) {
	loc := newFakeLocator()
	stats := &fakeStats{}
	log := &fakeLog{}
	a := NewActor(loc, loc, &fakePersist{}, stats, log)
	return a, loc, stats, log
}

// newTestOC builds a Core fronting a fakeHead with the given deadline,
// registers it with loc under a fresh LRU, and returns both.
func newTestOC(loc *fakeLocator, a *Actor, deadline time.Time) (*Core, *LRU) {
	head := newFakeHead(deadline)
	oc := NewCore(head, "xid")
	l := NewLRU(a, loc, nil)
	loc.put(oc, l)
	return oc, l
}

// drainOne takes the next mailbox entry (if any) and runs it through
// inbox, returning whether there was anything to drain.
func drainOne(a *Actor, now time.Time) bool {
	a.mu.Lock()
	oc := a.mbox.take()
	a.mu.Unlock()
	if oc == nil {
		return false
	}
	a.inbox(oc, now)
	return true
}

// drainAll drains every pending mailbox entry.
func drainAll(a *Actor, now time.Time) {
	for drainOne(a, now) {
	}
}
