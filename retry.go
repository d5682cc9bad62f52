package activeobjects

import "time"

// Default tunables for RetryableAgent, matching the source's
// min_retry_interval=1s / max_retry_interval=60s.
const (
	DefaultMinRetryInterval = time.Second
	DefaultMaxRetryInterval = 60 * time.Second
)

// RetryableAgent decorates an ActiveObject's process hook with
// exponential backoff: a failing hook is rearmed at an interval that
// doubles (clamped to MaxRetryInterval) on each consecutive failure,
// and reset once the hook succeeds. It is built as a decorator over
// ProcessFunc rather than a subclass, per the capability-set
// rearchitecture in DESIGN.md.
type RetryableAgent struct {
	*ActiveObject

	MinRetryInterval time.Duration
	MaxRetryInterval time.Duration

	nextRetry         *time.Time
	nextRetryInterval time.Duration
	inner             ProcessFunc
}

// NewRetryableAgent constructs a retry-capable agent whose work is
// process. On success the agent behaves exactly like a plain
// ActiveObject; on error it reschedules itself for the next backoff
// deadline and re-reports the error to the controller's tick.
func NewRetryableAgent(controller *Controller, priority int, typeID, id string, hasIdentity bool, process ProcessFunc) *RetryableAgent {
	r := &RetryableAgent{
		MinRetryInterval: DefaultMinRetryInterval,
		MaxRetryInterval: DefaultMaxRetryInterval,
		inner:            process,
	}
	r.ActiveObject = NewActiveObject(controller, priority, typeID, id, hasIdentity, nil)
	r.ActiveObject.SetProcessHook(r.processInternal)
	return r
}

// WasError reports whether a retry is currently outstanding, i.e. the
// most recent invocation of the inner hook failed and has not yet
// been retried successfully.
func (r *RetryableAgent) WasError() bool {
	return r.nextRetry != nil
}

// processInternal is installed as the ActiveObject's ProcessFunc. If
// a backoff deadline is outstanding and hasn't arrived yet, it is a
// no-op for this invocation — the caller has already been rescheduled
// for it via Reached. This means an external Signal cannot shorten a
// backoff; see the open questions in SPEC_FULL.md §10.
func (r *RetryableAgent) processInternal(ctx *TickContext) error {
	if r.nextRetry != nil && !r.Reached(r.nextRetry) {
		return nil
	}
	err := r.inner(ctx)
	if err == nil {
		r.nextRetry = nil
		return nil
	}
	if r.nextRetry == nil {
		r.nextRetryInterval = r.MinRetryInterval
	} else {
		r.nextRetryInterval *= 2
		if r.nextRetryInterval > r.MaxRetryInterval {
			r.nextRetryInterval = r.MaxRetryInterval
		}
	}
	t := r.ScheduleDelay(r.nextRetryInterval)
	r.nextRetry = &t
	return err
}
