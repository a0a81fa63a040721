package expiry

import "container/list"

// mailbox is a singly-anchored FIFO of OCs awaiting the actor's
// attention, guarded by the actor's own mutex and signalled through
// the Actor's signal channel. DYING mails are inserted at the head so
// kill notifications never wait behind a long insertion burst.
type mailbox struct {
	queue *list.List // *Core elements; reuses Core.lruElem while OffLRU.
}

func newMailbox() *mailbox {
	return &mailbox{queue: list.New()}
}

// mail enqueues oc. Caller must already hold the actor mutex and must
// have OffLRU set on oc: a mailed entry and an LRU-linked entry can
// never both claim oc.lruElem. The caller's reference passes to the
// actor.
func (m *mailbox) mail(oc *Core) {
	if !oc.hasFlags(OffLRU) {
		invariantViolation("mail called on an OC still linked to an LRU")
	}
	if oc.hasFlags(Dying) {
		oc.lruElem = m.queue.PushFront(oc)
		return
	}
	oc.lruElem = m.queue.PushBack(oc)
}

// take detaches and returns the head of the queue, or nil if empty.
// Caller must hold the actor mutex.
func (m *mailbox) take() *Core {
	e := m.queue.Front()
	if e == nil {
		return nil
	}
	m.queue.Remove(e)
	oc := e.Value.(*Core)
	oc.lruElem = nil
	return oc
}

func (m *mailbox) empty() bool { return m.queue.Len() == 0 }

func (m *mailbox) len() int { return m.queue.Len() }
