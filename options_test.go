package activeobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveControllerOptionsDefaults(t *testing.T) {
	cfg, err := resolveControllerOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, WallClock, cfg.clock)
	assert.Equal(t, defaultMaxBatchSize, cfg.maxBatchSize)
	assert.Nil(t, cfg.rateLimiter)
}

func TestWithMaxBatchSizeOverridesDefault(t *testing.T) {
	cfg, err := resolveControllerOptions([]ControllerOption{WithMaxBatchSize(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.maxBatchSize)
}

func TestWithMaxBatchSizeRejectsNonPositive(t *testing.T) {
	_, err := resolveControllerOptions([]ControllerOption{WithMaxBatchSize(0)})
	require.Error(t, err)
}

func TestWithIDGeneratorOverridesDefault(t *testing.T) {
	cfg, err := resolveControllerOptions([]ControllerOption{WithIDGenerator(func() string { return "fixed-id" })})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", cfg.idGenerator())
}

func TestWithIDGeneratorRejectsNil(t *testing.T) {
	_, err := resolveControllerOptions([]ControllerOption{WithIDGenerator(nil)})
	require.Error(t, err)
}

func TestNewControllerClampsPriorityCount(t *testing.T) {
	c, err := NewController(0, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	assert.Len(t, c.ready, 1)
}

func TestNewControllerUsesCustomIDGenerator(t *testing.T) {
	c, err := NewController(1, WithIDGenerator(func() string { return "ctrl-1" }), WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	assert.Equal(t, "ctrl-1", c.ID())
}

func TestNewControllerPropagatesOptionError(t *testing.T) {
	_, err := NewController(1, WithClock(nil))
	require.Error(t, err)
}
