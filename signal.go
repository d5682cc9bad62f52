package activeobjects

// waiter is implemented by anything that can be parked as a List node
// and later popped and notified: *Listener, *AOListener, *FlagListener.
type waiter interface {
	Signal()
}

// Signaler is a one-shot fan-out point. Listeners park on it via Wait
// and are popped and notified in FIFO order by SignalNext/SignalAll.
type Signaler struct {
	queue List
}

// NewSignaler constructs an empty Signaler.
func NewSignaler() *Signaler { return &Signaler{} }

// Check parks listener if it is not already queued in this Signaler
// specifically, returning whether a new parking was actually
// performed. If listener is parked in a different Signaler, it is
// spliced out of that one and into this one (List.Add's splice
// behavior) and Check reports true.
func (s *Signaler) Check(listener *Listener) bool {
	if listener == nil {
		return false
	}
	if listener.node.InListOf(&s.queue) {
		return false
	}
	s.queue.Add(&listener.node)
	return true
}

// Wait parks listener on this Signaler; idempotent per (Signaler, Listener).
func (s *Signaler) Wait(listener *Listener) {
	s.Check(listener)
}

// IsQueued reports whether listener is currently parked in this Signaler.
func (s *Signaler) IsQueued(listener *Listener) bool {
	return listener.node.InListOf(&s.queue)
}

// HasListeners reports whether any listener is currently parked.
func (s *Signaler) HasListeners() bool {
	return s.queue.First() != nil
}

// SignalNext pops and signals the head listener, returning whether
// the queue is non-empty afterward.
func (s *Signaler) SignalNext() bool {
	node := s.queue.RemoveFirst()
	if node == nil {
		return false
	}
	node.Owner.(waiter).Signal()
	return s.queue.First() != nil
}

// SignalAll pops and signals every parked listener.
func (s *Signaler) SignalAll() {
	for {
		node := s.queue.RemoveFirst()
		if node == nil {
			return
		}
		node.Owner.(waiter).Signal()
	}
}

// Close is an alias for SignalAll, for symmetry with Listener.Close
// and Flag's lifecycle methods.
func (s *Signaler) Close() {
	s.SignalAll()
}

// CopyFrom splices every waiter currently parked in other onto this
// Signaler's queue, leaving other empty.
func (s *Signaler) CopyFrom(other *Signaler) {
	for {
		node := other.queue.RemoveFirst()
		if node == nil {
			return
		}
		s.queue.Add(node)
	}
}

// Listener parks on a Signaler and is notified when it fires. A
// Listener may be parked in at most one Signaler's queue at a time.
type Listener struct {
	node ListNode
}

// NewListener constructs a Listener not currently parked anywhere.
func NewListener() *Listener {
	l := &Listener{}
	l.node.Owner = l
	return l
}

// Wait parks the listener on signaler.
func (l *Listener) Wait(signaler *Signaler) {
	signaler.Check(l)
}

// Check parks the listener on signaler, returning whether a new
// parking was actually performed.
func (l *Listener) Check(signaler *Signaler) bool {
	return signaler.Check(l)
}

// Signal is invoked by a Signaler when popping this listener off its
// queue; it simply unparks. Overridden by AOListener to also signal
// an owning agent.
func (l *Listener) Signal() {
	l.node.Remove()
}

// IsSignaled reports whether the listener is not currently parked —
// either because it was signaled, or because it was never waited on.
func (l *Listener) IsSignaled() bool {
	return !l.node.InList()
}

// Remove unparks the listener without signaling anything.
func (l *Listener) Remove() {
	l.node.Remove()
}

// Close unparks the listener. Terminal.
func (l *Listener) Close() {
	l.node.Remove()
}

// AOListener is a Listener bound to an ActiveObject: when signaled,
// it unparks itself and also signals the owning agent, which is how
// signaling primitives plug into the scheduler's ready queues.
type AOListener struct {
	Listener
	owner *ActiveObject
}

// NewAOListener constructs a Listener that signals owner when fired.
func NewAOListener(owner *ActiveObject) *AOListener {
	l := &AOListener{owner: owner}
	l.node.Owner = l
	return l
}

// Signal unparks the listener and signals the owning agent.
func (l *AOListener) Signal() {
	l.Listener.Signal()
	l.owner.Signal()
}
