package expiry

import (
	"testing"
	"time"
)

// Insert one OC with a ten-second effective TTL; it must not fire
// before the deadline and must fire exactly once at/after it.
func TestScenario_SingleObjectFiresOnceAtDeadline(t *testing.T) {
	base := time.Unix(100, 0)
	deadline := base.Add(10 * time.Second)

	a, loc, stats, _ := newTestActor()
	oc, _ := newTestOC(loc, a, deadline)

	a.Insert(oc, base)
	drainAll(a, base)

	if oc.RefCount() != 1 {
		t.Fatalf("expected refcount 1 after insert, got %d", oc.RefCount())
	}

	before := deadline.Add(-1 * time.Millisecond)
	if next := a.expire(before); next.Before(deadline) {
		t.Fatalf("expire fired before the deadline: next=%v deadline=%v", next, deadline)
	}
	if exp, _, _, _ := stats.snapshot(); exp != 0 {
		t.Fatalf("expected no expiry yet, got %d", exp)
	}

	after := deadline.Add(1 * time.Millisecond)
	next := a.expire(after)
	if !next.IsZero() {
		t.Fatalf("expected immediate-retry sentinel after firing, got %v", next)
	}
	if exp, _, _, _ := stats.snapshot(); exp != 1 {
		t.Fatalf("expected exactly one expiry, got %d", exp)
	}
	if oc.RefCount() != 0 {
		t.Fatalf("expected refcount 0 after expiry, got %d", oc.RefCount())
	}
	if oc.inHeap() {
		t.Fatal("expired OC must leave the heap")
	}

	// Firing again must be a no-op: the OC is gone from the heap.
	next2 := a.expire(after)
	if next2.Before(after) {
		t.Fatalf("second expire call should not re-fire, got %v", next2)
	}
	if exp, _, _, _ := stats.snapshot(); exp != 1 {
		t.Fatal("expiry fired more than once")
	}
}

// Scenario 2: two OCs with different deadlines; the earlier one
// expires first and the heap root becomes the later one.
func TestScenario_EarlierDeadlineExpiresFirst(t *testing.T) {
	base := time.Unix(100, 0)
	a, loc, _, _ := newTestActor()

	ocA, _ := newTestOC(loc, a, base.Add(200*time.Second))
	ocB, _ := newTestOC(loc, a, base.Add(150*time.Second))

	a.Insert(ocA, base)
	a.Insert(ocB, base)
	drainAll(a, base)

	at160 := base.Add(160 * time.Second)
	a.expire(at160)

	if ocB.inHeap() {
		t.Fatal("B should have expired by t=160s")
	}
	if !ocA.inHeap() {
		t.Fatal("A should still be in the heap")
	}
	if root := heapPeekRoot(&a.heap); root != ocA {
		t.Fatalf("expected A at heap root, got %+v", root)
	}
}

// Scenario 3: rearming to an earlier deadline makes the OC fire at
// the new time, not the original one, and fires exactly once.
func TestScenario_RearmToEarlierDeadline(t *testing.T) {
	base := time.Unix(100, 0)
	a, loc, stats, _ := newTestActor()
	oc, _ := newTestOC(loc, a, base.Add(500*time.Second))

	a.Insert(oc, base)
	drainAll(a, base)

	head := oc.Head.(*fakeHead)
	head.setDeadline(base.Add(300 * time.Second))
	a.Rearm(oc)
	drainAll(a, base)

	if !oc.timerWhen.Equal(base.Add(300 * time.Second)) {
		t.Fatalf("expected timer_when=300s, got %v", oc.timerWhen)
	}

	at310 := base.Add(310 * time.Second)
	a.expire(at310)
	if exp, _, _, _ := stats.snapshot(); exp != 1 {
		t.Fatalf("expected exactly one expiry, got %d", exp)
	}
	if oc.inHeap() {
		t.Fatal("OC should have left the heap")
	}
}

// Scenario 4: rearming with a non-finite (negative) deadline kills the
// OC without counting it as an expiry.
func TestScenario_RearmNegativeDeadlineKillsWithoutExpiryStat(t *testing.T) {
	base := time.Unix(100, 0)
	a, loc, stats, log := newTestActor()
	oc, _ := newTestOC(loc, a, base.Add(500*time.Second))

	a.Insert(oc, base)
	drainAll(a, base)

	head := oc.Head.(*fakeHead)
	head.setDying()
	a.Rearm(oc)
	drainAll(a, base)

	if exp, _, _, _ := stats.snapshot(); exp != 0 {
		t.Fatalf("expected n_expired unchanged, got %d", exp)
	}
	if log.count() != 0 {
		t.Fatalf("expected no Kill log line for a rearm-to-dying, got %d", log.count())
	}
	if oc.inHeap() {
		t.Fatal("dying OC must leave the heap")
	}
	if oc.RefCount() != 0 {
		t.Fatalf("expected refcount 0 after dying, got %d", oc.RefCount())
	}
}

func TestRearmNoopWhenDeadlineUnchanged(t *testing.T) {
	base := time.Unix(100, 0)
	a, loc, _, _ := newTestActor()
	deadline := base.Add(10 * time.Second)
	oc, _ := newTestOC(loc, a, deadline)

	a.Insert(oc, base)
	drainAll(a, base)

	before := oc.timerWhen
	a.Rearm(oc)
	if !a.mbox.empty() {
		t.Fatal("Rearm with an unchanged deadline must not mail")
	}
	if !oc.timerWhen.Equal(before) {
		t.Fatal("timer_when must not change on a no-op rearm")
	}
}

func TestInsertBusyObjectIsNotExpired(t *testing.T) {
	base := time.Unix(100, 0)
	a, loc, stats, _ := newTestActor()
	oc, _ := newTestOC(loc, a, base.Add(-1*time.Second)) // already past due

	a.Insert(oc, base)
	drainAll(a, base)

	oc.SetBusy(true)
	next := a.expire(base)
	if next.Before(base) {
		t.Fatal("busy OC must not expire")
	}
	if exp, _, _, _ := stats.snapshot(); exp != 0 {
		t.Fatal("busy OC must not count as expired")
	}

	oc.SetBusy(false)
	a.expire(base)
	if exp, _, _, _ := stats.snapshot(); exp != 1 {
		t.Fatal("OC should expire once no longer busy")
	}
}

// Inject is Insert's counterpart for a caller that already computed
// the wake time itself (e.g. restoring a timer from persisted
// metadata): it must land the OC in the heap at exactly that time and
// fire once at/after it, the same as a fresh Insert would.
func TestInjectFiresOnceAtPrecomputedDeadline(t *testing.T) {
	base := time.Unix(100, 0)
	deadline := base.Add(10 * time.Second)

	a, loc, stats, _ := newTestActor()
	oc, lru := newTestOC(loc, a, deadline)
	oc.IncRef() // Inject assumes the caller already holds a reference.

	a.Inject(oc, lru, deadline)
	drainAll(a, base)

	if !oc.timerWhen.Equal(deadline) {
		t.Fatalf("expected timer_when=%v, got %v", deadline, oc.timerWhen)
	}
	if !oc.inHeap() {
		t.Fatal("injected OC must land in the heap")
	}

	before := deadline.Add(-1 * time.Millisecond)
	if next := a.expire(before); next.Before(deadline) {
		t.Fatalf("expire fired before the deadline: next=%v deadline=%v", next, deadline)
	}

	after := deadline.Add(1 * time.Millisecond)
	a.expire(after)
	if exp, _, _, _ := stats.snapshot(); exp != 1 {
		t.Fatalf("expected exactly one expiry, got %d", exp)
	}
	if oc.inHeap() {
		t.Fatal("expired OC must leave the heap")
	}
}

func TestExpireEmptyHeapReturnsLongNap(t *testing.T) {
	a, _, _, _ := newTestActor()
	now := time.Unix(0, 0)
	next := a.expire(now)
	if !next.After(now) {
		t.Fatal("empty heap should return a future nap time")
	}
}
