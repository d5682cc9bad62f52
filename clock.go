package activeobjects

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/clock/testclock"
)

// Clock is the time source used throughout the scheduler: Now() for
// the controller's notion of "current time", After/AfterFunc/NewTimer
// for the cooperative-async drive loop's sleep-until-deadline.
//
// It is satisfied directly by clock.WallClock for production use, and
// by *testclock.Clock (via NewEmulatedClock) for the ASAP drive loop
// and for deterministic tests.
type Clock = clock.Clock

// WallClock is the real, unmodified wall-clock time source. It is the
// Controller's default when no WithClock option is supplied.
var WallClock = clock.WallClock

// EmulatedClock is the controller-settable, manually-advanced clock
// used by the ASAP drive loop (see RunASAP) and by tests that need
// deterministic control over retry backoff, scheduling, and dispatch
// ordering.
type EmulatedClock = testclock.Clock

// NewEmulatedClock constructs an EmulatedClock seeded at start. The
// ASAP drive loop advances it to each tick's returned deadline via
// Advance; nothing else does so automatically.
func NewEmulatedClock(start time.Time) *EmulatedClock {
	return testclock.NewClock(start)
}
