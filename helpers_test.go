package activeobjects

import "time"

// fixedStart is a stable reference instant for tests driving an
// EmulatedClock, chosen arbitrarily but deterministically rather than
// taken from time.Now(). (Tests that wait on real goroutines or
// subprocesses still use time.Now() for their wall-clock deadlines.)
var fixedStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
