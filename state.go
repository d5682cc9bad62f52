package activeobjects

import "sync/atomic"

// ControllerState tracks where a Controller is in its lifecycle,
// adapted from the teacher's lock-free LoopState/FastState pair. It
// is read far more often than written (every drive-loop iteration
// checks it), so a plain atomic word beats a mutex.
//
// State machine:
//
//	StateAwake (0) → StateRunning (1)       [a drive loop starts]
//	StateRunning (1) → StateSleeping (2)    [drive loop blocks on clock/wakeup]
//	StateSleeping (2) → StateRunning (1)    [drive loop wakes]
//	StateRunning/StateSleeping → StateTerminating (3) [Terminate()]
//	StateTerminating (3) → StateTerminated (4) [drive loop observes and returns]
//
// Process, the drive loops, and Terminate all move between states
// with Store, on the loop goroutine. TryTransition (CAS) is available
// but is not used by this package.
type ControllerState uint32

const (
	// StateAwake: controller constructed, no drive loop has run yet.
	StateAwake ControllerState = iota
	// StateRunning: a drive loop is actively ticking.
	StateRunning
	// StateSleeping: a drive loop is blocked waiting on the clock or wakeup channel.
	StateSleeping
	// StateTerminating: Terminate() has been called; the drive loop has not yet observed it.
	StateTerminating
	// StateTerminated: the drive loop has returned.
	StateTerminated
)

func (s ControllerState) String() string {
	switch s {
	case StateAwake:
		return "Awake"
	case StateRunning:
		return "Running"
	case StateSleeping:
		return "Sleeping"
	case StateTerminating:
		return "Terminating"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// lifecycleState is an atomic holder for ControllerState.
type lifecycleState struct {
	v atomic.Uint32
}

func newLifecycleState() *lifecycleState {
	s := &lifecycleState{}
	s.v.Store(uint32(StateAwake))
	return s
}

func (s *lifecycleState) Load() ControllerState {
	return ControllerState(s.v.Load())
}

func (s *lifecycleState) Store(state ControllerState) {
	s.v.Store(uint32(state))
}

// TryTransition attempts to atomically move from one state to
// another, returning whether it succeeded.
func (s *lifecycleState) TryTransition(from, to ControllerState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}

// IsTerminal reports whether the drive loop has fully exited.
func (s *lifecycleState) IsTerminal() bool {
	return s.Load() == StateTerminated
}

// IsTerminating reports whether Terminate has been requested, whether
// or not the drive loop has yet observed it.
func (s *lifecycleState) IsTerminating() bool {
	switch s.Load() {
	case StateTerminating, StateTerminated:
		return true
	default:
		return false
	}
}
