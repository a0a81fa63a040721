// Package object implements the full cached response object that
// fronts an expiry.Core handle: its timers and the object-head mutex
// the expiry core locks through the expiry.ObjectHead interface.
package object

import (
	"sync"
	"time"
)

// Object carries the timers the expiry core needs: TOrigin, TTL,
// Grace, and Keep. Everything else about a cached response — headers,
// body, backend — is out of scope here; this package only models what
// the expiry core needs to compute a deadline.
type Object struct {
	mu sync.Mutex

	TOrigin time.Time
	TTL     time.Duration
	Grace   time.Duration
	Keep    time.Duration

	busy bool
}

// New builds an Object with the given timers, time-of-origin defaulting
// to now.
func New(ttl, grace, keep time.Duration) *Object {
	return &Object{
		TOrigin: time.Now(),
		TTL:     ttl,
		Grace:   grace,
		Keep:    keep,
	}
}

func (o *Object) Lock()         { o.mu.Lock() }
func (o *Object) TryLock() bool { return o.mu.TryLock() }
func (o *Object) Unlock()       { o.mu.Unlock() }

// Busy reports whether a fetch still holds this object open for
// writing. Distinct from expiry.Core's own BUSY bit: this is the
// object-level state a fetch worker would consult before calling
// Core.SetBusy; kept here so a real fetch path has somewhere to read
// it from without reaching into the expiry package.
func (o *Object) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// SetBusy updates the object-level busy flag.
func (o *Object) SetBusy(b bool) {
	o.mu.Lock()
	o.busy = b
	o.mu.Unlock()
}

// Deadline returns the effective wake time (t_origin+ttl+grace+keep)
// and whether it is finite. Reads are done under the object's own
// mutex, so callers must not already hold o's lock.
func (o *Object) Deadline() (time.Time, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.TTL < 0 || o.Grace < 0 || o.Keep < 0 {
		return time.Time{}, false
	}
	when := o.TOrigin.Add(o.TTL).Add(o.Grace).Add(o.Keep)
	return when, true
}

// SetTimers atomically replaces TTL/Grace/Keep, e.g. after a VCL
// policy revalidates an object and grants it a new lifetime. Any
// negative TTL/Grace/Keep makes Deadline report ok=false, whatever the
// sum of the three, which Actor.Rearm treats as a signal to mark the
// object DYING.
func (o *Object) SetTimers(ttl, grace, keep time.Duration) {
	o.mu.Lock()
	o.TTL, o.Grace, o.Keep = ttl, grace, keep
	o.mu.Unlock()
}

// Kill forces a non-finite deadline by driving TTL negative, the
// sentinel Deadline treats as "not finite". The caller must still
// invoke Actor.Rearm afterward so the actor observes the change:
// Object has no way to notify the actor on its own.
func (o *Object) Kill() {
	o.mu.Lock()
	o.TTL = -1
	o.mu.Unlock()
}
