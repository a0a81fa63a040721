package expiry

import "errors"

// ErrCannotReclaim is returned by NukeOne when no evictable candidate
// exists in the domain's LRU set.
var ErrCannotReclaim = errors.New("expiry: cannot reclaim")

// ErrNoOp is returned by Touch when contention or DONTMOVE prevents a
// move. It is not an error condition for callers; it is the expected
// outcome of a deliberately lossy try-lock discipline.
var ErrNoOp = errors.New("expiry: no-op")

// invariantViolation panics. Every condition in the core besides
// ErrCannotReclaim and ErrNoOp is a bug, not a runtime error: there is
// no partial-failure semantics for the heap or mailbox.
func invariantViolation(msg string) {
	panic("expiry: invariant violation: " + msg)
}
