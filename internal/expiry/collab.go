package expiry

import "time"

// ObjectHead is the external interface to the full cached response
// object. Implementations guard mutable timer fields with their own
// mutex; Lock/Unlock represent that object-head mutex.
type ObjectHead interface {
	Lock()
	// TryLock attempts to acquire the object-head mutex without
	// blocking. NukeOne's candidate filter relies on this to skip an
	// object a fetch worker currently holds rather than stall behind it.
	TryLock() bool
	Unlock()

	// Deadline returns the effective wake time (t_origin+ttl+grace+keep)
	// and whether it is finite. A non-finite or negative deadline is
	// the caller's signal to mark the OC DYING.
	Deadline() (time.Time, bool)
}

// Locator resolves the LRU set an ObjectCore belongs to. Must be
// idempotent for a given OC.
type Locator interface {
	Locate(oc *Core) *LRU
}

// RefCounter provides the atomic reference operations the core relies
// on. Deref returning true means the refcount reached zero and object
// teardown was triggered outside the core.
type RefCounter interface {
	Ref(oc *Core)
	Deref(oc *Core) bool
}

// MetadataPersister is invoked whenever timer_when changes so external
// persistence layers can record it.
type MetadataPersister interface {
	PersistTimer(oc *Core, when time.Time)
}

// KillEvent is the payload logged when the actor expires an OC. OCs
// that die through a DYING mail (NukeOne, or Rearm with a non-finite
// deadline) are not logged.
type KillEvent struct {
	OC          *Core
	TimerWhen   time.Time
	Flags       Flag
	XID         string
	ResidualTTL time.Duration
}

// StatsSink collects the core's non-blocking operational counters.
type StatsSink interface {
	IncExpired()
	IncLRUMoved()
	IncLRUNuked()
	IncNukeCapped()
}

// LogSink receives Kill events.
type LogSink interface {
	Kill(KillEvent)
}
