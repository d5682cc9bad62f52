package activeobjects

// Flag is a level-triggered boolean with two independent waiter
// queues — one for agents waiting for it to go up, one for agents
// waiting for it to go down. Unlike Signaler, a Flag's waiters are
// notified only by a level transition, not by every signal.
type Flag struct {
	waitUp   List
	waitDown List
	isUp     bool
}

// NewFlag constructs a Flag starting down.
func NewFlag() *Flag { return &Flag{} }

// IsUp reports the current level.
func (f *Flag) IsUp() bool { return f.isUp }

func (f *Flag) currentQueue() *List {
	if f.isUp {
		return &f.waitUp
	}
	return &f.waitDown
}

// NotifyAll pops and signals every waiter parked on the side matching
// the current level.
func (f *Flag) NotifyAll() {
	q := f.currentQueue()
	for {
		node := q.RemoveFirst()
		if node == nil {
			return
		}
		node.Owner.(waiter).Signal()
	}
}

// Notify pops and signals a single waiter parked on the side matching
// the current level, returning whether that side is still non-empty
// afterward.
func (f *Flag) Notify() bool {
	q := f.currentQueue()
	node := q.RemoveFirst()
	if node == nil {
		return false
	}
	node.Owner.(waiter).Signal()
	return q.First() != nil
}

func (f *Flag) setLevel(up, notifyAll bool) bool {
	if f.isUp == up {
		return false
	}
	f.isUp = up
	if notifyAll {
		f.NotifyAll()
	}
	return true
}

// Up raises the flag, notifying every up-waiter, unless it was
// already up (in which case it is a no-op and Up returns false).
func (f *Flag) Up() bool { return f.setLevel(true, true) }

// UpNotify raises the flag like Up, but lets the caller suppress the
// notification pass (e.g. to batch several level changes).
func (f *Flag) UpNotify(notifyAll bool) bool { return f.setLevel(true, notifyAll) }

// Down lowers the flag, notifying every down-waiter, unless it was
// already down.
func (f *Flag) Down() bool { return f.setLevel(false, true) }

// DownNotify lowers the flag like Down, with notification optional.
func (f *Flag) DownNotify(notifyAll bool) bool { return f.setLevel(false, notifyAll) }

// FlagListener is a directional waiter bound to an owning agent: at
// any moment it is parked in at most one of a Flag's two queues (or
// neither), never both.
type FlagListener struct {
	node  ListNode
	owner *ActiveObject
	flag  *Flag
}

// NewFlagListener constructs a FlagListener that signals owner when
// the flag it is waiting on transitions to the side it wants.
func NewFlagListener(owner *ActiveObject) *FlagListener {
	fl := &FlagListener{owner: owner}
	fl.node.Owner = fl
	return fl
}

// Signal is invoked by a Flag when popping this listener off a queue.
func (fl *FlagListener) Signal() {
	fl.owner.Signal()
}

// Close unparks the listener from whichever queue it is in.
func (fl *FlagListener) Close() {
	fl.node.Remove()
	fl.owner = nil
	fl.flag = nil
}

// IsUp reports flag's current level. If the flag is not up, the
// listener parks in flag's up-waiters (removing itself from the
// down-waiters first, if it was there) so a subsequent Up notifies it.
func (fl *FlagListener) IsUp(flag *Flag) bool {
	fl.flag = flag
	if flag.isUp {
		if fl.node.InListOf(&flag.waitUp) {
			flag.waitUp.Remove(&fl.node)
		}
		return true
	}
	if !fl.node.InListOf(&flag.waitUp) {
		flag.waitUp.Add(&fl.node)
	}
	return false
}

// IsDown reports flag's current level, parking symmetrically to IsUp.
func (fl *FlagListener) IsDown(flag *Flag) bool {
	fl.flag = flag
	if !flag.isUp {
		if fl.node.InListOf(&flag.waitDown) {
			flag.waitDown.Remove(&fl.node)
		}
		return true
	}
	if !fl.node.InListOf(&flag.waitDown) {
		flag.waitDown.Add(&fl.node)
	}
	return false
}
