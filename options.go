package activeobjects

import (
	"errors"

	"github.com/joeycumines/go-catrate"
)

// controllerOptions holds configuration resolved from ControllerOption
// values before a Controller is constructed.
type controllerOptions struct {
	clock        Clock
	logger       Logger
	rateLimiter  *catrate.Limiter
	idGenerator  func() string
	maxBatchSize int
}

// ControllerOption configures a Controller at construction time,
// following the teacher's fallible functional-options shape
// (`LoopOption.applyLoop(*loopOptions) error`): an option can reject
// an invalid value instead of silently accepting it.
type ControllerOption interface {
	applyController(*controllerOptions) error
}

type controllerOptionFunc func(*controllerOptions) error

func (f controllerOptionFunc) applyController(o *controllerOptions) error { return f(o) }

// WithClock overrides the controller's time source. Defaults to
// WallClock; pass an *EmulatedClock for RunASAP or deterministic
// tests. Returns an error if c is nil.
func WithClock(c Clock) ControllerOption {
	return controllerOptionFunc(func(o *controllerOptions) error {
		if c == nil {
			return errors.New("activeobjects: WithClock: clock must not be nil")
		}
		o.clock = c
		return nil
	})
}

// WithLogger overrides the controller's structured logger. Defaults
// to NoOpLogger. Returns an error if l is nil.
func WithLogger(l Logger) ControllerOption {
	return controllerOptionFunc(func(o *controllerOptions) error {
		if l == nil {
			return errors.New("activeobjects: WithLogger: logger must not be nil")
		}
		o.logger = l
		return nil
	})
}

// WithRateLimiter installs a sliding-window limiter used to throttle
// repeated-failure log spam from async-inbox closures. Agent hook
// errors are not logged by the controller, so it does not apply to
// them. Defaults to nil (no throttling).
func WithRateLimiter(l *catrate.Limiter) ControllerOption {
	return controllerOptionFunc(func(o *controllerOptions) error {
		o.rateLimiter = l
		return nil
	})
}

// WithIDGenerator overrides how the controller mints its own instance
// ID. Agents and tasks are not given generated IDs. Defaults to
// uuid.NewString via NewID. Returns an error if f is nil.
func WithIDGenerator(f func() string) ControllerOption {
	return controllerOptionFunc(func(o *controllerOptions) error {
		if f == nil {
			return errors.New("activeobjects: WithIDGenerator: generator must not be nil")
		}
		o.idGenerator = f
		return nil
	})
}

// WithMaxBatchSize overrides the tick's internal batch quantum
// (§4.5's "fixed at 10"). Primarily useful in tests that want to
// observe the batch-size invariant (property 9) at a smaller
// scale. Returns an error if n is not positive.
func WithMaxBatchSize(n int) ControllerOption {
	return controllerOptionFunc(func(o *controllerOptions) error {
		if n <= 0 {
			return errors.New("activeobjects: WithMaxBatchSize: n must be positive")
		}
		o.maxBatchSize = n
		return nil
	})
}

func resolveControllerOptions(opts []ControllerOption) (*controllerOptions, error) {
	cfg := &controllerOptions{
		clock:        WallClock,
		logger:       NewNoOpLogger(),
		idGenerator:  NewID,
		maxBatchSize: defaultMaxBatchSize,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyController(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
