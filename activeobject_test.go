package activeobjects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScheduleIsMonotoneTowardSooner is scenario S1 from the spec:
// scheduling a later time than an already-pending one is ignored.
func TestScheduleIsMonotoneTowardSooner(t *testing.T) {
	clock := NewEmulatedClock(fixedStart)
	c, err := NewController(1, WithClock(clock))
	require.NoError(t, err)
	agent := newTestAgent(c, nil)

	t10 := fixedStart.Add(10 * time.Second)
	t5 := fixedStart.Add(5 * time.Second)
	t20 := fixedStart.Add(20 * time.Second)

	agent.Schedule(&t10)
	agent.Schedule(&t5)
	agent.Schedule(&t20)

	require.NotNil(t, agent.GetT())
	assert.True(t, agent.GetT().Equal(t5))
}

func TestScheduleDelayHelpers(t *testing.T) {
	clock := NewEmulatedClock(fixedStart)
	c, err := NewController(1, WithClock(clock))
	require.NoError(t, err)
	agent := newTestAgent(c, nil)

	got := agent.ScheduleMilliseconds(500)
	assert.True(t, got.Equal(fixedStart.Add(500*time.Millisecond)))
}

func TestReachedSchedulesWhenInFuture(t *testing.T) {
	clock := NewEmulatedClock(fixedStart)
	c, err := NewController(1, WithClock(clock))
	require.NoError(t, err)
	agent := newTestAgent(c, nil)

	future := fixedStart.Add(time.Minute)
	assert.False(t, agent.Reached(&future))
	assert.True(t, agent.IsScheduled())

	clock.Advance(time.Minute)
	assert.True(t, agent.Reached(&future))
}

func TestReachedNilIsAlwaysTrue(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	agent := newTestAgent(c, nil)
	assert.True(t, agent.Reached(nil))
}

func TestSignalIsIdempotent(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	agent := newTestAgent(c, nil)
	require.True(t, agent.IsSignaled())

	agent.Signal()
	assert.Equal(t, 1, c.ready[0].Len())
}

func TestResignalMovesToLowestPriorityQueue(t *testing.T) {
	c, err := NewController(3, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	agent := NewActiveObject(c, 0, "", "", false, nil)
	agent.Deactivate()
	agent.Signal()
	require.Equal(t, 1, c.ready[0].Len())

	agent.Resignal()

	assert.Equal(t, 0, c.ready[0].Len())
	assert.Equal(t, 1, c.ready[2].Len())
}

func TestCloseRemovesFromAllStructures(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	agent := NewActiveObject(c, 0, "widget", "1", true, nil)

	future := fixedStart.Add(time.Second)
	agent.Schedule(&future)

	agent.Close()

	assert.False(t, agent.IsSignaled())
	assert.False(t, agent.IsScheduled())
	assert.Nil(t, c.Find("widget", "1"))
}

func TestFindByIdentity(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	agent := NewActiveObject(c, 0, "widget", "42", true, nil)

	found := c.Find("widget", "42")
	require.NotNil(t, found)
	assert.Same(t, agent, found)

	assert.Nil(t, c.Find("widget", "no-such-id"))
}
