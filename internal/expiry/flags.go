package expiry

// Flag is the ObjectCore bitset recording where a Core currently sits
// and what the actor should do with it next.
type Flag uint8

const (
	// OffLRU is set iff the OC is not linked into its LRU list.
	OffLRU Flag = 1 << iota
	// Insert marks a mailbox entry as a first-time heap insertion.
	Insert
	// Move marks a mailbox entry as a heap reorder (rearm).
	Move
	// Dying marks an OC scheduled for destruction.
	Dying
	// Busy marks an OC currently being written to by a fetch; must not expire.
	Busy
)

func (f Flag) has(bit Flag) bool { return f&bit != 0 }

// NoIdx is the sentinel timer_idx meaning "not in heap".
const NoIdx = -1
