package activeobjects

// SignalPub/SignalSub implement the edge/level pub-sub variant of
// signaling: a publisher keeps a list of subscribers, each of which
// carries its own level bit and an edge-mode flag. Unlike Signaler,
// signaling a SignalPub never removes subscribers from its list —
// they remain subscribed across repeated signals.
type SignalPub struct {
	subscribers List
}

// NewSignalPub constructs an empty publisher.
func NewSignalPub() *SignalPub { return &SignalPub{} }

// Signal notifies every subscriber whose edge mode is off, or whose
// level bit is not already set: it sets the level bit and signals the
// subscriber's owning agent. A subscriber in edge mode that is
// already set is skipped — this is the edge-suppression behavior
// that makes SignalSub.Reset the level→edge conversion primitive.
func (p *SignalPub) Signal() {
	item := p.subscribers.First()
	for item != nil {
		sub := item.Owner.(*SignalSub)
		if !sub.edge || !sub.isSet {
			sub.isSet = true
			sub.owner.Signal()
		}
		item = item.Next()
	}
}

// Close drains the subscriber list with one final signal-all round,
// then leaves every former subscriber unsubscribed.
func (p *SignalPub) Close() {
	for {
		item := p.subscribers.RemoveFirst()
		if item == nil {
			return
		}
		sub := item.Owner.(*SignalSub)
		if !sub.edge || !sub.isSet {
			sub.isSet = true
			sub.owner.Signal()
		}
	}
}

// SignalSub subscribes an agent to a SignalPub.
type SignalSub struct {
	node  ListNode
	owner *ActiveObject
	isSet bool
	edge  bool
}

// NewSignalSub constructs a subscriber owned by owner. If pub is
// non-nil, it subscribes immediately.
func NewSignalSub(owner *ActiveObject, edge bool, isSet bool, pub *SignalPub) *SignalSub {
	s := &SignalSub{owner: owner, isSet: isSet, edge: edge}
	s.node.Owner = s
	if pub != nil {
		s.Subscribe(pub)
	}
	return s
}

// Subscribe links the subscriber into pub's list.
func (s *SignalSub) Subscribe(pub *SignalPub) {
	pub.subscribers.Add(&s.node)
}

// Unsubscribe removes the subscriber from whatever publisher it is linked to.
func (s *SignalSub) Unsubscribe() {
	s.node.Remove()
}

// IsSubscribed reports current publisher membership.
func (s *SignalSub) IsSubscribed() bool {
	return s.node.InList()
}

// IsActive reports whether the subscriber is set, or is not subscribed
// to any publisher at all (an unsubscribed edge-mode subscriber is
// vacuously considered active, matching the source).
func (s *SignalSub) IsActive() bool {
	if s.isSet {
		return true
	}
	return !s.node.InList()
}

// Reset returns the subscriber's prior activity state and clears its
// level bit — the level→edge conversion primitive: a caller can poll
// IsActive/Reset once per cycle to consume a level as if it were an
// edge.
func (s *SignalSub) Reset() bool {
	res := s.IsActive()
	s.isSet = false
	return res
}

// Close unsubscribes. Terminal.
func (s *SignalSub) Close() {
	s.Unsubscribe()
}
