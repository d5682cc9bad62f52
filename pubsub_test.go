package activeobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalPubSignalsLevelSubscriber(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	agent := newTestAgent(c, nil)
	agent.Deactivate()

	pub := NewSignalPub()
	sub := NewSignalSub(agent, false, false, pub)

	pub.Signal()

	assert.True(t, agent.IsSignaled())
	assert.True(t, sub.IsActive())
}

func TestSignalSubEdgeModeSuppressesRepeats(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	agent := newTestAgent(c, nil)
	agent.Deactivate()

	pub := NewSignalPub()
	sub := NewSignalSub(agent, true, false, pub)

	pub.Signal()
	assert.True(t, agent.IsSignaled())

	agent.Deactivate()
	pub.Signal()
	assert.False(t, agent.IsSignaled(), "edge-mode subscriber already set should suppress a repeat signal")
}

func TestSignalSubResetConvertsLevelToEdge(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	agent := newTestAgent(c, nil)
	agent.Deactivate()

	pub := NewSignalPub()
	sub := NewSignalSub(agent, false, false, pub)
	pub.Signal()
	require.True(t, sub.IsActive())

	wasActive := sub.Reset()
	assert.True(t, wasActive)
	assert.False(t, sub.IsActive())
}

func TestSignalSubUnsubscribe(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	agent := newTestAgent(c, nil)
	agent.Deactivate()

	pub := NewSignalPub()
	sub := NewSignalSub(agent, false, false, pub)
	require.True(t, sub.IsSubscribed())

	sub.Unsubscribe()
	assert.False(t, sub.IsSubscribed())

	pub.Signal()
	assert.False(t, agent.IsSignaled())
}
