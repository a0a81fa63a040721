package expiry

import "container/heap"

// timerHeap is a binary min-heap of *Core ordered by timer_when,
// single-writer (the actor only), owned by the Actor. Every swap/move
// updates the OC's timer_idx so heapDelete and heapReorder can locate
// an entry in O(log n) instead of scanning.
type timerHeap []*Core

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	return h[i].timerWhen.Before(h[j].timerWhen)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].timerIdx = i
	h[j].timerIdx = j
}

func (h *timerHeap) Push(x any) {
	oc := x.(*Core)
	oc.timerIdx = len(*h)
	*h = append(*h, oc)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	oc := old[n-1]
	old[n-1] = nil
	oc.timerIdx = NoIdx
	*h = old[:n-1]
	return oc
}

// heapInsert pushes oc onto the heap and asserts it entered a valid
// slot.
func heapInsert(h *timerHeap, oc *Core) {
	heap.Push(h, oc)
	if oc.timerIdx < 0 || oc.timerIdx >= h.Len() {
		invariantViolation("heap insert left OC outside a valid slot")
	}
}

// heapReorder re-establishes heap order around oc's current slot
// after timer_when changed underneath it.
func heapReorder(h *timerHeap, oc *Core) {
	if oc.timerIdx == NoIdx {
		invariantViolation("heap reorder on an OC not in the heap")
	}
	heap.Fix(h, oc.timerIdx)
}

// heapDelete removes oc from the heap if present; it is a no-op
// otherwise (the DYING inbox branch calls this unconditionally).
func heapDelete(h *timerHeap, oc *Core) {
	if oc.timerIdx == NoIdx {
		return
	}
	heap.Remove(h, oc.timerIdx)
}

// heapPeekRoot returns the minimum-timer_when OC without removing it,
// or nil if the heap is empty.
func heapPeekRoot(h *timerHeap) *Core {
	if h.Len() == 0 {
		return nil
	}
	return (*h)[0]
}
