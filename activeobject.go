package activeobjects

import "time"

// TickContext carries per-invocation information into an agent's
// process hook. It exists as a separate type (rather than passing the
// controller directly) so a hook can't reach controller-internal
// structures it has no business touching — only what the hook needs.
type TickContext struct {
	// Now is the controller's notion of current time at the moment
	// this hook was invoked (real or emulated, per the controller's
	// configured Clock).
	Now time.Time
}

// ProcessFunc is the capability an agent supplies to the scheduler: a
// single step of work. The retry wrapper and the tasks layer are
// decorators over this capability, not subclasses of ActiveObject —
// see DESIGN.md for why inheritance doesn't fit.
type ProcessFunc func(ctx *TickContext) error

// ActiveObject is the base agent type every scheduled entity embeds.
// It owns exactly one by-time tree node, one by-identity tree node,
// and one ready-queue node; see the package doc for the membership
// invariants those three embedded nodes must uphold.
type ActiveObject struct {
	controller *Controller

	typeID      string
	id          string
	hasIdentity bool
	priority    int

	t *time.Time

	byTimeNode   TreeNode
	byIDNode     TreeNode
	signaledNode ListNode

	process ProcessFunc
}

// NewActiveObject constructs an agent under controller at the given
// priority. When hasIdentity is true, (typeID, id) is this agent's
// key in the controller's by-identity index and Find/ForEachObject
// can locate it; when false, it is addressable only through whatever
// reference the caller retains. process may be nil and supplied later
// via SetProcessHook — the tasks layer and the retry wrapper both
// need a pointer to the constructed ActiveObject before they can
// build their own closure over it.
//
// Construction implicitly signals the new agent, matching the
// source's "every live agent starts in its priority's ready queue".
func NewActiveObject(controller *Controller, priority int, typeID, id string, hasIdentity bool, process ProcessFunc) *ActiveObject {
	o := &ActiveObject{
		controller:  controller,
		typeID:      typeID,
		id:          id,
		hasIdentity: hasIdentity,
		priority:    priority,
		process:     process,
	}
	o.byTimeNode.Owner = o
	o.byIDNode.Owner = o
	o.signaledNode.Owner = o
	if hasIdentity {
		controller.byIdentity.Add(&o.byIDNode)
	}
	o.Signal()
	return o
}

func (o *ActiveObject) identity() (typeID, id string, ok bool) {
	return o.typeID, o.id, o.hasIdentity
}

// SetProcessHook installs (or replaces) the process capability. Only
// safe to call before the controller has had a chance to dispatch
// this agent, i.e. immediately after construction — the scheduler is
// single-threaded, so that is simply "before returning control to a
// drive loop".
func (o *ActiveObject) SetProcessHook(f ProcessFunc) {
	o.process = f
}

// Controller returns the controller this agent is scheduled under.
func (o *ActiveObject) Controller() *Controller { return o.controller }

// Priority returns the agent's immutable dispatch priority.
func (o *ActiveObject) Priority() int { return o.priority }

// TypeID and ID return the agent's identity pair. HasIdentity reports
// whether the agent is indexed by identity at all.
func (o *ActiveObject) TypeID() string     { return o.typeID }
func (o *ActiveObject) ID() string         { return o.id }
func (o *ActiveObject) HasIdentity() bool  { return o.hasIdentity }

// IsSignaled reports membership in a priority ready queue.
func (o *ActiveObject) IsSignaled() bool { return o.signaledNode.InList() }

// IsScheduled reports membership in the by-time tree.
func (o *ActiveObject) IsScheduled() bool { return o.byTimeNode.InTree() }

// GetT returns the agent's pending scheduled time, or nil if it is
// not currently scheduled.
func (o *ActiveObject) GetT() *time.Time { return o.t }

// Now returns the controller's current time.
func (o *ActiveObject) Now() time.Time { return o.controller.Now() }

// Schedule arranges for the agent to be signaled once t arrives. It
// is monotone toward sooner: if the agent already has an earlier
// pending time, t is ignored. A nil t is a no-op.
func (o *ActiveObject) Schedule(t *time.Time) {
	if t == nil {
		return
	}
	if o.t != nil && !t.Before(*o.t) {
		return
	}
	o.controller.byTime.Remove(&o.byTimeNode)
	tt := *t
	o.t = &tt
	o.controller.byTime.Add(&o.byTimeNode)
}

// ScheduleDelay schedules the agent for now+d and returns that time.
func (o *ActiveObject) ScheduleDelay(d time.Duration) time.Time {
	t := o.controller.Now().Add(d)
	o.Schedule(&t)
	return t
}

// ScheduleMilliseconds schedules the agent ms milliseconds from now.
func (o *ActiveObject) ScheduleMilliseconds(ms int64) time.Time {
	return o.ScheduleDelay(time.Duration(ms) * time.Millisecond)
}

// ScheduleSeconds schedules the agent s seconds from now.
func (o *ActiveObject) ScheduleSeconds(s float64) time.Time {
	return o.ScheduleDelay(time.Duration(s * float64(time.Second)))
}

// ScheduleMinutes schedules the agent m minutes from now.
func (o *ActiveObject) ScheduleMinutes(m float64) time.Time {
	return o.ScheduleDelay(time.Duration(m * float64(time.Minute)))
}

// Unschedule removes the agent from the by-time tree and clears its
// pending time. It does not touch identity indexing or signaling.
func (o *ActiveObject) Unschedule() {
	o.controller.byTime.Remove(&o.byTimeNode)
	o.t = nil
}

// Deactivate removes the agent from the by-time tree and its ready
// queue, but leaves identity indexing untouched. Used by agents that
// want to go idle until externally signaled.
func (o *ActiveObject) Deactivate() {
	o.controller.byTime.Remove(&o.byTimeNode)
	o.t = nil
	o.signaledNode.Remove()
}

// Signal enqueues the agent onto its priority's ready queue unless it
// is already there. Idempotent.
func (o *ActiveObject) Signal() {
	if !o.signaledNode.InList() {
		o.controller.ready[o.priority].Add(&o.signaledNode)
	}
}

// Resignal moves the agent to the tail of the lowest-priority ready
// queue, regardless of its own priority — yielding to every other
// pending piece of work before it runs again. See DESIGN.md for why
// this (rather than "back of my own queue") is preserved from the
// source.
func (o *ActiveObject) Resignal() {
	o.signaledNode.Remove()
	o.controller.ready[len(o.controller.ready)-1].Add(&o.signaledNode)
}

// Reached reports whether t is absent or has already passed. If t is
// in the future, it schedules the agent for t and returns false —
// this is the idiomatic "sleep until" check inside a process hook.
func (o *ActiveObject) Reached(t *time.Time) bool {
	if t == nil {
		return true
	}
	if !t.After(o.controller.Now()) {
		return true
	}
	o.Schedule(t)
	return false
}

// Close removes the agent from all three structures: the by-time
// tree, the by-identity tree, and its ready queue. Terminal — no
// other operation is meaningful on the agent afterward.
func (o *ActiveObject) Close() {
	o.controller.byTime.Remove(&o.byTimeNode)
	o.controller.byIdentity.Remove(&o.byIDNode)
	o.signaledNode.Remove()
}

// runProcessInternal is what the controller invokes each time it
// dispatches the agent. It delegates to whatever ProcessFunc is
// currently installed — the base hook, or a decorator's wrapper.
func (o *ActiveObject) runProcessInternal(ctx *TickContext) error {
	if o.process == nil {
		return nil
	}
	return o.process(ctx)
}
