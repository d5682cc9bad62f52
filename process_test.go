package activeobjects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForExitCode(t *testing.T, c *Controller, p *SystemTaskProcess) int {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for p.GetExitCode() == nil {
		require.True(t, time.Now().Before(deadline), "process did not complete in time")
		_, err := c.Process()
		require.NoError(t, err)
		if p.GetExitCode() == nil {
			<-c.wakeupCh
		}
	}
	return *p.GetExitCode()
}

func TestSystemTaskProcessReportsExitCode(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	p := NewSystemTaskProcess(c, []string{"sh", "-c", "exit 0"}, "")

	assert.Equal(t, 0, waitForExitCode(t, c, p))
}

func TestSystemTaskProcessReportsNonZeroExitCode(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	p := NewSystemTaskProcess(c, []string{"sh", "-c", "exit 7"}, "")

	assert.Equal(t, 7, waitForExitCode(t, c, p))
}

func TestSystemTaskProcessCancelSendsSIGTERM(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	p := NewSystemTaskProcess(c, []string{"sh", "-c", "trap 'exit 42' TERM; sleep 5 & wait"}, "")

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		p.mu.Lock()
		started := p.cmd != nil && p.cmd.Process != nil
		p.mu.Unlock()
		if started {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	p.Cancel(false)

	code := waitForExitCode(t, c, p)
	assert.NotEqual(t, 0, code)
}
