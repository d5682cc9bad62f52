package activeobjects

// ListNode is embedded by anything that wants O(1) membership in an
// intrusive List: ready queues, signaler waiter queues, flag waiter
// queues, and pub/sub subscriber lists all use the same node type.
//
// A node's lifetime belongs to its enclosing owner; the List it is
// linked into holds only a weak back-reference and never allocates or
// frees nodes itself.
type ListNode struct {
	next  *ListNode
	prev  *ListNode
	owner *List

	// Owner is the weak back-reference to the agent, listener, or
	// subscriber that embeds this node. Containers never set it; the
	// enclosing type sets it once at construction so that, given only
	// a *ListNode popped off a queue, the caller can recover who it
	// belongs to (e.g. a ready-queue node's Owner is the *ActiveObject;
	// a signaler waiter's Owner is the *Listener).
	Owner any
}

// InList reports whether the node is currently linked into any List.
func (n *ListNode) InList() bool {
	return n.owner != nil
}

// InListOf reports whether the node is currently linked into l
// specifically, as opposed to some other List.
func (n *ListNode) InListOf(l *List) bool {
	return n.owner == l
}

// Next returns the following node, or nil if this node is unlinked or
// is the last node in its list.
func (n *ListNode) Next() *ListNode {
	if n.owner != nil {
		return n.next
	}
	return nil
}

// Prev returns the preceding node, or nil if this node is unlinked or
// is the first node in its list.
func (n *ListNode) Prev() *ListNode {
	if n.owner != nil {
		return n.prev
	}
	return nil
}

// Remove unlinks the node from whatever list it is currently in. It is
// a no-op if the node is not linked.
func (n *ListNode) Remove() {
	if n.owner != nil {
		n.owner.Remove(n)
	}
}

// List is an intrusive doubly-linked list of ListNode. It owns no
// nodes: every operation simply splices pointers.
type List struct {
	first *ListNode
	last  *ListNode
	count int
}

// Len returns the number of nodes currently linked into the list.
func (l *List) Len() int { return l.count }

// First returns the head node, or nil if the list is empty.
func (l *List) First() *ListNode { return l.first }

// Last returns the tail node, or nil if the list is empty.
func (l *List) Last() *ListNode { return l.last }

// Add appends node to the end of the list. If node is already linked
// into another list (or this one), it is spliced out first.
func (l *List) Add(node *ListNode) {
	if node.owner != nil {
		node.owner.Remove(node)
	}
	if l.first == nil {
		l.first = node
		l.last = node
		node.next = nil
		node.prev = nil
	} else {
		l.last.next = node
		node.prev = l.last
		node.next = nil
		l.last = node
	}
	node.owner = l
	l.count++
}

// AddFirst prepends node to the start of the list. If node is already
// linked into another list (or this one), it is spliced out first.
func (l *List) AddFirst(node *ListNode) {
	if node.owner != nil {
		node.owner.Remove(node)
	}
	if l.first == nil {
		l.first = node
		l.last = node
		node.next = nil
		node.prev = nil
	} else {
		l.first.prev = node
		node.next = l.first
		node.prev = nil
		l.first = node
	}
	node.owner = l
	l.count++
}

// InsertBefore links item immediately before before, which must
// already be linked into this list. If item is linked elsewhere, it
// is spliced out first.
func (l *List) InsertBefore(before, item *ListNode) {
	if item.owner != nil {
		item.owner.Remove(item)
	}
	if before.prev == nil {
		l.AddFirst(item)
		return
	}
	before.prev.next = item
	item.prev = before.prev
	item.next = before
	before.prev = item
	item.owner = l
	l.count++
}

// InsertAfter links item immediately after after, which must already
// be linked into this list. If item is linked elsewhere, it is
// spliced out first.
func (l *List) InsertAfter(after, item *ListNode) {
	if item.owner != nil {
		item.owner.Remove(item)
	}
	if after.next == nil {
		l.Add(item)
		return
	}
	after.next.prev = item
	item.next = after.next
	item.prev = after
	after.next = item
	item.owner = l
	l.count++
}

// Remove unlinks item from the list. It is a no-op if item is not
// currently linked into this particular list.
func (l *List) Remove(item *ListNode) {
	if item.owner != l {
		return
	}
	if item.next == nil {
		if item.prev == nil {
			l.first = nil
			l.last = nil
		} else {
			item.prev.next = nil
			l.last = item.prev
		}
	} else {
		if item.prev == nil {
			l.first = item.next
			l.first.prev = nil
		} else {
			item.next.prev = item.prev
			item.prev.next = item.next
		}
	}
	l.count--
	item.owner = nil
	item.prev = nil
	item.next = nil
}

// RemoveFirst unlinks and returns the head node, or nil if the list
// is empty.
func (l *List) RemoveFirst() *ListNode {
	result := l.first
	if result == nil {
		return nil
	}
	if result.next == nil {
		l.first = nil
		l.last = nil
	} else {
		l.first = result.next
		l.first.prev = nil
	}
	l.count--
	result.owner = nil
	result.prev = nil
	result.next = nil
	return result
}

// Clear unlinks every node currently in the list, resetting each
// node's membership without deallocating anything.
func (l *List) Clear() {
	p := l.first
	for p != nil {
		next := p.next
		p.prev = nil
		p.next = nil
		p.owner = nil
		p = next
	}
	l.first = nil
	l.last = nil
	l.count = 0
}

// Reset clears the list's own bookkeeping without touching the nodes
// that were linked into it. Use only when the nodes' ownership is
// being reassigned by other means (e.g. the list itself is being
// discarded); otherwise prefer Clear.
func (l *List) Reset() {
	l.first = nil
	l.last = nil
	l.count = 0
}
