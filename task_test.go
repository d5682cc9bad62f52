package activeobjects

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbstractTaskSetExitCodeIsOneShot(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	task := NewAbstractTask(c, 0, "", "", false, nil)

	task.SetExitCode(7)
	task.SetExitCode(9)

	require.NotNil(t, task.GetExitCode())
	assert.Equal(t, 7, *task.GetExitCode())
}

func TestAbstractTaskClosesOnceCompleted(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	task := NewAbstractTask(c, 0, "task", "1", true, nil)

	var signaled bool
	l := NewListener()
	task.IsCompleted(l)

	task.SetExitCode(0)
	_, err = c.Process(WithMaxCount(1))
	require.NoError(t, err)

	signaled = l.IsSignaled()
	assert.True(t, signaled)
	assert.Nil(t, c.Find("task", "1"))
}

func TestAbstractTaskCancelRequestsAreSticky(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	task := NewAbstractTask(c, 0, "", "", false, nil)

	task.Cancel(false)
	assert.True(t, task.IsCancelled())
	assert.False(t, task.IsKillRequested())

	task.Cancel(true)
	assert.True(t, task.IsKillRequested())
}

func TestAsyncTaskProcessCompletesThroughThreadsafeAsyncCall(t *testing.T) {
	clock := NewEmulatedClock(fixedStart)
	c, err := NewController(1, WithClock(clock))
	require.NoError(t, err)

	done := make(chan struct{})
	p := NewAsyncTaskProcess(c, func(_ context.Context) error {
		<-done
		return nil
	})

	require.Nil(t, p.GetExitCode())
	close(done)

	// Give the background goroutine a chance to call
	// ThreadsafeAsyncCall; the loop below runs Process after each
	// wakeup until a tick drains the result off the async inbox.
	deadline := time.Now().Add(time.Second)
	for p.GetExitCode() == nil && time.Now().Before(deadline) {
		_, err := c.Process()
		require.NoError(t, err)
		if p.GetExitCode() == nil {
			<-c.wakeupCh
		}
	}

	require.NotNil(t, p.GetExitCode())
	assert.Equal(t, 0, *p.GetExitCode())
}

func TestAsyncTaskProcessRecordsError(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	errBoom := errors.New("boom")

	p := NewAsyncTaskProcess(c, func(_ context.Context) error {
		return errBoom
	})

	deadline := time.Now().Add(time.Second)
	for p.GetExitCode() == nil && time.Now().Before(deadline) {
		_, err := c.Process()
		require.NoError(t, err)
		if p.GetExitCode() == nil {
			<-c.wakeupCh
		}
	}

	require.NotNil(t, p.GetExitCode())
	assert.Equal(t, -1, *p.GetExitCode())
	assert.Equal(t, errBoom, p.Err())
}

func TestAsyncTaskProcessCancelForcesCompletion(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)
	block := make(chan struct{})
	defer close(block)

	p := NewAsyncTaskProcess(c, func(_ context.Context) error {
		<-block
		return nil
	})

	p.Cancel(false)

	require.NotNil(t, p.GetExitCode())
	assert.Equal(t, -1, *p.GetExitCode())
}

func TestAsyncTaskProcessCancelConveysKillCauseToContext(t *testing.T) {
	c, err := NewController(1, WithClock(NewEmulatedClock(fixedStart)))
	require.NoError(t, err)

	observed := make(chan bool, 1)
	p := NewAsyncTaskProcess(c, func(ctx context.Context) error {
		<-ctx.Done()
		observed <- IsKillCause(ctx)
		return ctx.Err()
	})

	p.Cancel(true)

	select {
	case killed := <-observed:
		assert.True(t, killed)
	case <-time.After(time.Second):
		t.Fatal("context was never cancelled")
	}
}
