package activeobjects

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFIFODispatchOrder is scenario S2: with priority_count=1, three
// agents constructed in order A, B, C (construction implicitly
// signals) are dispatched in that same order.
func TestFIFODispatchOrder(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)

	var order []string
	mk := func(name string) *ActiveObject {
		return NewActiveObject(c, 0, "", "", false, func(_ *TickContext) error {
			order = append(order, name)
			return nil
		})
	}
	mk("A")
	mk("B")
	mk("C")

	_, err = c.Process(WithMaxCount(3))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, order)
}

// TestTimePromotionRunsHookExactlyOnce is scenario S3: an agent
// scheduled for now+1s is invoked exactly once after the clock
// advances to now+2s, and afterward is neither signaled nor
// scheduled (since its hook doesn't rearm itself).
func TestTimePromotionRunsHookExactlyOnce(t *testing.T) {
	clock := NewEmulatedClock(fixedStart)
	c, err := NewController(1, WithClock(clock))
	require.NoError(t, err)

	var calls int
	agent := NewActiveObject(c, 0, "", "", false, func(_ *TickContext) error {
		calls++
		return nil
	})
	agent.Deactivate()
	deadline := fixedStart.Add(time.Second)
	agent.Schedule(&deadline)

	clock.Advance(2 * time.Second)
	_, err = c.Process()
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.False(t, agent.IsSignaled())
	assert.False(t, agent.IsScheduled())
}

// TestFlagHandshakeAcrossTicks is scenario S5: a flag starts down, an
// agent parks waiting for it to rise, external code raises it, and on
// the next tick the agent's hook observes the flag up.
func TestFlagHandshakeAcrossTicks(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	f := NewFlag()

	var sawUp bool
	var fl *FlagListener
	agent := NewActiveObject(c, 0, "", "", false, func(_ *TickContext) error {
		sawUp = fl.IsUp(f)
		return nil
	})
	fl = NewFlagListener(agent)

	_, err = c.Process(WithMaxCount(1))
	require.NoError(t, err)
	assert.False(t, sawUp)
	assert.True(t, fl.node.InListOf(&f.waitUp))

	f.Up()
	require.True(t, agent.IsSignaled())

	_, err = c.Process(WithMaxCount(1))
	require.NoError(t, err)
	assert.True(t, sawUp)
}

func TestProcessRecoversPanicAsPanicError(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	NewActiveObject(c, 0, "", "", false, func(_ *TickContext) error {
		panic("boom")
	})

	_, err = c.Process(WithMaxCount(1))
	require.Error(t, err)
	var panicErr *PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "boom", panicErr.Value)
}

func TestProcessOnErrorAbsorbsFailure(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	errBoom := errors.New("boom")
	NewActiveObject(c, 0, "", "", false, func(_ *TickContext) error {
		return errBoom
	})

	var seen error
	_, err = c.Process(WithMaxCount(1), WithOnError(func(_ *ActiveObject, e error) {
		seen = e
	}))
	require.NoError(t, err)
	assert.Equal(t, errBoom, seen)
}

func TestProcessOnBeforeSkipsAgent(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	var ran bool
	agent := NewActiveObject(c, 0, "", "", false, func(_ *TickContext) error {
		ran = true
		return nil
	})

	_, err = c.Process(WithMaxCount(1), WithOnBefore(func(o *ActiveObject) bool {
		return o == agent
	}))
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestThreadsafeAsyncCallDrainsLIFO(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	var order []int
	c.ThreadsafeAsyncCall(func() { order = append(order, 1) })
	c.ThreadsafeAsyncCall(func() { order = append(order, 2) })
	c.ThreadsafeAsyncCall(func() { order = append(order, 3) })

	_, err = c.Process(WithMaxCount(0))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestForEachObjectFiltersByTypeID(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	NewActiveObject(c, 0, "widget", "1", true, nil)
	NewActiveObject(c, 0, "widget", "2", true, nil)
	NewActiveObject(c, 0, "gadget", "1", true, nil)

	typeID := "widget"
	ids := c.GetIDs(&typeID)
	assert.Equal(t, []string{"1", "2"}, ids)

	allIDs := c.GetIDs(nil)
	assert.Len(t, allIDs, 3)
}

// TestProcessRechecksTimeExactlyAtBatchBoundary is property 9 (§9 of
// SPEC_FULL.md): with a batch quantum of 2, a deadline that becomes due
// mid-dispatch is promoted after exactly 2 agents have run, not 3 — the
// tick returns to step 1 (re-check time) only once the current batch's
// fixed quantum is exhausted.
func TestProcessRechecksTimeExactlyAtBatchBoundary(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)), WithMaxBatchSize(2))
	require.NoError(t, err)

	ta := NewActiveObject(c, 0, "", "", false, func(_ *TickContext) error { return nil })
	ta.Deactivate()

	var sawScheduled []bool
	NewActiveObject(c, 0, "", "", false, func(_ *TickContext) error {
		sawScheduled = append(sawScheduled, ta.IsScheduled())
		now := c.Now()
		ta.Schedule(&now)
		return nil
	})
	NewActiveObject(c, 0, "", "", false, func(_ *TickContext) error {
		sawScheduled = append(sawScheduled, ta.IsScheduled())
		return nil
	})
	NewActiveObject(c, 0, "", "", false, func(_ *TickContext) error {
		sawScheduled = append(sawScheduled, ta.IsScheduled())
		return nil
	})
	NewActiveObject(c, 0, "", "", false, func(_ *TickContext) error {
		sawScheduled = append(sawScheduled, ta.IsScheduled())
		return nil
	})

	_, err = c.Process()
	require.NoError(t, err)

	// R0 (before scheduling ta): false. R1 (same batch, ta still
	// pending): true. R2 (next batch, ta already promoted): false.
	require.Len(t, sawScheduled, 4)
	assert.Equal(t, []bool{false, true, false, false}, sawScheduled)
}

func TestTerminateStopsProcessing(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	var calls int
	NewActiveObject(c, 0, "", "", false, func(_ *TickContext) error {
		calls++
		return nil
	})

	c.Terminate()
	next, err := c.Process()
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, 0, calls)
	assert.Equal(t, StateTerminated, c.State())
}
