package activeobjects

import (
	"sync"
	"time"
)

const defaultMaxBatchSize = 10

// asyncCall is one deferred closure queued via ThreadsafeAsyncCall.
type asyncCall struct {
	fn func()
}

// Controller is the scheduler kernel: it holds the by-time index, the
// by-identity index, one ready queue per priority, the thread-safe
// async inbox, and the wakeup channel that drive loops block on.
//
// Every method except Wakeup and ThreadsafeAsyncCall must be called
// from the single goroutine driving the controller (whichever drive
// loop, or direct repeated Process calls, the caller has chosen).
type Controller struct {
	id           string
	clock        Clock
	logger       Logger
	rateLimiter  rateLimiter
	idGenerator  func() string
	maxBatchSize int

	byTime     *Tree
	byIdentity *Tree
	ready      []List

	state *lifecycleState

	wakeupCh chan struct{}

	inboxMu sync.Mutex
	inbox   []asyncCall

	suppressed map[string]bool
}

// rateLimiter is the subset of *catrate.Limiter the controller needs,
// narrowed to a local interface so a nil *catrate.Limiter (the
// default, meaning "no throttling") composes naturally with the
// options plumbing.
type rateLimiter interface {
	Allow(category any) (time.Time, bool)
}

// NewController constructs a Controller with priorityCount ready
// queues (clamped to at least 1). See WithClock, WithLogger,
// WithRateLimiter, WithIDGenerator, and WithMaxBatchSize for
// configuration. Returns an error if any option rejects its value,
// matching the teacher's fallible `New() (*Loop, error)` constructor
// shape.
func NewController(priorityCount int, opts ...ControllerOption) (*Controller, error) {
	if priorityCount < 1 {
		priorityCount = 1
	}
	cfg, err := resolveControllerOptions(opts)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		id:           cfg.idGenerator(),
		clock:        cfg.clock,
		logger:       cfg.logger,
		idGenerator:  cfg.idGenerator,
		maxBatchSize: cfg.maxBatchSize,
		byIdentity:   NewTree(byIdentityComp),
		ready:        make([]List, priorityCount),
		state:        newLifecycleState(),
		wakeupCh:     make(chan struct{}, 1),
		suppressed:   make(map[string]bool),
	}
	if cfg.rateLimiter != nil {
		c.rateLimiter = cfg.rateLimiter
	}
	c.byTime = NewTree(byTimeComp)
	return c, nil
}

// ID returns the controller's own instance identifier, used as
// ControllerID in every LogEntry it emits.
func (c *Controller) ID() string { return c.id }

// Now returns the controller's current time: the real wall clock by
// default, or whatever instant an EmulatedClock installed via
// WithClock currently holds.
func (c *Controller) Now() time.Time { return c.clock.Now() }

// Clock returns the configured time source.
func (c *Controller) Clock() Clock { return c.clock }

// State reports where the controller is in its lifecycle.
func (c *Controller) State() ControllerState { return c.state.Load() }

// Terminated reports whether Terminate has been called. Loop-thread
// only, like every other read of scheduler state.
func (c *Controller) Terminated() bool { return c.state.IsTerminating() }

// Find looks up the agent indexed under (typeID, id), or nil.
func (c *Controller) Find(typeID, id string) *ActiveObject {
	key := newKeyNode(identityKey{typeID: typeID, id: id})
	node := c.byIdentity.Find(key, byIdentityComp)
	if node == nil {
		return nil
	}
	return node.Owner.(*ActiveObject)
}

// GetNearest returns the agent with the earliest pending scheduled
// time, or nil if no agent is currently scheduled.
func (c *Controller) GetNearest() *ActiveObject {
	node := c.byTime.Leftmost()
	if node == nil {
		return nil
	}
	return node.Owner.(*ActiveObject)
}

// ForEachObject calls f for every agent of typeID in identity order,
// or for every identity-indexed agent if typeID is nil. The walk
// captures each node's successor before calling f, so f may safely
// Close the current agent.
func (c *Controller) ForEachObject(typeID *string, f func(*ActiveObject)) {
	c.ForEachObjectWithBreak(typeID, func(o *ActiveObject) any {
		f(o)
		return nil
	})
}

// ForEachObjectWithBreak is ForEachObject, except the walk stops and
// returns as soon as f returns a truthy (non-nil, non-false) value.
func (c *Controller) ForEachObjectWithBreak(typeID *string, f func(*ActiveObject) any) any {
	var node *TreeNode
	if typeID == nil {
		node = c.byIdentity.Leftmost()
	} else {
		key := newKeyNode(identityKey{typeID: *typeID})
		node = c.byIdentity.FindLeftmostEQ(key, byTypeComp)
	}
	for node != nil {
		obj := node.Owner.(*ActiveObject)
		if typeID != nil && obj.typeID != *typeID {
			return nil
		}
		next := node.Successor()
		if v := f(obj); isTruthy(v) {
			return v
		}
		node = next
	}
	return nil
}

func isTruthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// GetIDs returns the ids of every agent of typeID, in identity order.
func (c *Controller) GetIDs(typeID *string) []string {
	var ids []string
	c.ForEachObject(typeID, func(o *ActiveObject) { ids = append(ids, o.id) })
	return ids
}

// Signal signals every agent of typeID, or every identity-indexed
// agent if typeID is nil.
func (c *Controller) Signal(typeID *string) {
	c.ForEachObject(typeID, func(o *ActiveObject) { o.Signal() })
}

// Terminate requests that the drive loop stop at its next
// opportunity and wakes it so it notices promptly.
func (c *Controller) Terminate() {
	c.state.Store(StateTerminating)
	c.Wakeup()
}

// Wakeup pokes the drive loop's wakeup channel. Idempotent and safe
// from any goroutine — one of the two thread-safe scheduler
// operations.
func (c *Controller) Wakeup() {
	select {
	case c.wakeupCh <- struct{}{}:
	default:
	}
}

// ThreadsafeAsyncCall appends f to the async inbox and pokes Wakeup.
// The only other operation safe to call from a foreign goroutine — it
// is how async-task completions and other background work rejoin the
// loop goroutine without racing scheduler state.
func (c *Controller) ThreadsafeAsyncCall(f func()) {
	c.inboxMu.Lock()
	c.inbox = append(c.inbox, asyncCall{fn: f})
	c.inboxMu.Unlock()
	c.Wakeup()
}

// processOptions configures a single Process call.
type processOptions struct {
	maxCount    int
	hasMaxCount bool
	onBefore    func(*ActiveObject) bool
	onSuccess   func(*ActiveObject)
	onError     func(*ActiveObject, error)
}

// ProcessOption configures a single Controller.Process call.
type ProcessOption func(*processOptions)

// WithMaxCount bounds the number of agents processed across the
// entire Process call (as opposed to the fixed 10-per-batch internal
// quantum); Process returns early, with the current time, once it
// reaches zero.
func WithMaxCount(n int) ProcessOption {
	return func(o *processOptions) { o.maxCount = n; o.hasMaxCount = true }
}

// WithOnBefore installs a hook called before each popped agent is
// dispatched; if it returns true, that agent is skipped for this tick
// (still counted against the batch and max-count quotas).
func WithOnBefore(f func(*ActiveObject) bool) ProcessOption {
	return func(o *processOptions) { o.onBefore = f }
}

// WithOnSuccess installs a hook called after an agent's process hook
// returns without error.
func WithOnSuccess(f func(*ActiveObject)) ProcessOption {
	return func(o *processOptions) { o.onSuccess = f }
}

// WithOnError installs a hook called when an agent's process hook
// errors (or panics). If set, Process absorbs the error and continues
// the tick; if unset, Process returns the error immediately.
func WithOnError(f func(*ActiveObject, error)) ProcessOption {
	return func(o *processOptions) { o.onError = f }
}

// Process runs one tick: drain the async inbox, promote time-expired
// agents, then dispatch ready agents in bounded batches of
// maxBatchSize (10 by default) before re-checking for newly-expired
// time-scheduled work. It returns the earliest outstanding deadline
// for the caller (typically a drive loop) to sleep on, or nil if
// nothing is scheduled.
func (c *Controller) Process(opts ...ProcessOption) (*time.Time, error) {
	cfg := &processOptions{}
	for _, o := range opts {
		o(cfg)
	}

	for {
		if c.Terminated() {
			c.state.Store(StateTerminated)
			return nil, nil
		}
		c.state.Store(StateRunning)

		if err := c.drainInbox(); err != nil {
			c.logInboxError(err)
		}

		nextTime := c.promoteExpired()

		obj := c.popReady()
		if obj == nil {
			return nextTime, nil
		}

		maxBatch := c.maxBatchSize
		if maxBatch <= 0 {
			maxBatch = defaultMaxBatchSize
		}
		for dispatched := 0; obj != nil; dispatched++ {
			if err := c.runOne(obj, cfg); err != nil {
				return nil, err
			}
			if cfg.hasMaxCount {
				cfg.maxCount--
				if cfg.maxCount <= 0 {
					now := c.Now()
					return &now, nil
				}
			}
			if c.Terminated() || dispatched+1 >= maxBatch {
				break
			}
			obj = c.popReady()
		}
	}
}

func (c *Controller) promoteExpired() *time.Time {
	now := c.Now()
	for {
		node := c.byTime.Leftmost()
		if node == nil {
			return nil
		}
		obj := node.Owner.(*ActiveObject)
		if obj.t.After(now) {
			t := *obj.t
			return &t
		}
		obj.Unschedule()
		obj.Signal()
	}
}

func (c *Controller) popReady() *ActiveObject {
	for i := range c.ready {
		if node := c.ready[i].RemoveFirst(); node != nil {
			return node.Owner.(*ActiveObject)
		}
	}
	return nil
}

func (c *Controller) runOne(obj *ActiveObject, cfg *processOptions) error {
	obj.Unschedule()
	if cfg.onBefore != nil && cfg.onBefore(obj) {
		return nil
	}
	err := c.invokeHook(obj)
	if err != nil {
		if cfg.onError != nil {
			cfg.onError(obj, err)
			return nil
		}
		return err
	}
	if cfg.onSuccess != nil {
		cfg.onSuccess(obj)
	}
	return nil
}

func (c *Controller) invokeHook(obj *ActiveObject) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return obj.runProcessInternal(&TickContext{Now: c.Now()})
}

// drainInbox pops every queued async call in LIFO order (the source's
// list.pop() semantics, locked in as the contract — see DESIGN.md).
// Individual failures are collected but never abort the drain.
func (c *Controller) drainInbox() error {
	var errs []error
	for {
		c.inboxMu.Lock()
		n := len(c.inbox)
		if n == 0 {
			c.inboxMu.Unlock()
			break
		}
		call := c.inbox[n-1]
		c.inbox = c.inbox[:n-1]
		c.inboxMu.Unlock()

		if err := c.invokeAsync(call); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}

func (c *Controller) invokeAsync(call asyncCall) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	call.fn()
	return nil
}

// logInboxError logs a drained AggregateError at Error level, rate
// limited per the "controller" category: the first time a window
// starts throttling, one Warn line announces the suppression.
func (c *Controller) logInboxError(err error) {
	const category = "controller"
	if !c.allowLog(category) {
		return
	}
	c.logger.Log(NewLogEntryWithOptions(LevelError, category, "async inbox call failed",
		WithControllerID(c.id), WithErr(err)))
}

func (c *Controller) allowLog(category string) bool {
	if c.rateLimiter == nil {
		return true
	}
	_, ok := c.rateLimiter.Allow(category)
	if !ok {
		if !c.suppressed[category] {
			c.suppressed[category] = true
			c.logger.Log(NewLogEntry(LevelWarn, category, "suppressing repeated failures").
				ControllerID(c.id).Build())
		}
		return false
	}
	c.suppressed[category] = false
	return true
}
