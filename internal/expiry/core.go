package expiry

import (
	"container/list"
	"sync/atomic"
	"time"
)

// Core is the minimal, always-resident handle for a cached object. It
// never owns its LRU or mailbox link directly: lruElem points into
// whichever container currently holds it, discriminated by the OffLRU
// flag.
type Core struct {
	Head ObjectHead // external, full object this handle fronts.
	XID  string     // identifier carried on Kill log lines; logging only.

	timerWhen time.Time // next wake time; actor-owned once heap-resident.
	timerIdx  int       // heap index, or NoIdx. Written only by the heap callback.

	lastLRU time.Time   // last LRU position update.
	flags   Flag        // protected by whichever mutex currently owns the link (LRU or actor).
	busy    atomic.Bool // set/cleared directly by fetch workers; read lock-free.

	refcnt int32 // atomic; actor holds exactly one reference while heap-resident.

	lruElem *list.Element // position in an LRU list OR in the mailbox; never both.
}

// SetBusy marks or clears BUSY. Fetch workers call this directly while
// filling an object; it deliberately bypasses the LRU/actor mutexes so
// a slow fetch never contends with unrelated LRU or heap traffic.
func (c *Core) SetBusy(b bool) { c.busy.Store(b) }

// IsBusy reports the current BUSY state: an OC currently being
// written to by a fetch, which must not be expired until cleared.
func (c *Core) IsBusy() bool { return c.busy.Load() }

// snapshotFlags returns flags merged with the out-of-band BUSY bit,
// for reporting (e.g. on a Kill log line).
func (c *Core) snapshotFlags() Flag {
	f := c.flags
	if c.IsBusy() {
		f |= Busy
	}
	return f
}

// NewCore builds a fresh handle, off-LRU and out of the heap, the
// state every OC starts in before its first Inject/Insert.
func NewCore(head ObjectHead, xid string) *Core {
	return &Core{
		Head:     head,
		XID:      xid,
		timerIdx: NoIdx,
		flags:    OffLRU,
		refcnt:   0,
	}
}

func (c *Core) setFlags(f Flag)      { c.flags |= f }
func (c *Core) clearFlags(f Flag)    { c.flags &^= f }
func (c *Core) hasFlags(f Flag) bool { return c.flags.has(f) }

func (c *Core) inHeap() bool { return c.timerIdx != NoIdx }

func (c *Core) addRef(n int32) int32 { return atomic.AddInt32(&c.refcnt, n) }
func (c *Core) refCount() int32      { return atomic.LoadInt32(&c.refcnt) }

// IncRef, DecRef and RefCount expose the reference count to whatever
// external RefCounter implementation backs a.refs. The core itself
// never decides to free an OC; it only ever adds or drops one of its
// own references.
func (c *Core) IncRef() int32 { return c.addRef(1) }
func (c *Core) DecRef() int32 { return c.addRef(-1) }
func (c *Core) RefCount() int32 { return c.refCount() }
