package activeobjects

import (
	"context"
	"errors"
)

// AbstractTask decorates an ActiveObject with completion tracking:
// an exit code, cooperative cancel/kill request bits, and a
// CompletedSignal whose parked listeners are notified once the task
// has completed (SetExitCode itself only signals the agent; the
// listeners are notified when the agent is next dispatched, by Close,
// and by AsyncTaskProcess's completion). It is itself a ProcessFunc
// decorator like
// [RetryableAgent] — see DESIGN.md for why composition replaces the
// source's class hierarchy here.
type AbstractTask struct {
	*ActiveObject

	exitCode        *int
	cancelRequested bool
	killRequested   bool
	err             error
	CompletedSignal *Signaler
	inner           ProcessFunc
}

// NewAbstractTask constructs a task under controller. inner is the
// wrapped step of work; it may be nil for a task whose only job is to
// track someone else's completion via SetExitCode.
func NewAbstractTask(controller *Controller, priority int, typeID, id string, hasIdentity bool, inner ProcessFunc) *AbstractTask {
	t := &AbstractTask{
		CompletedSignal: NewSignaler(),
		inner:           inner,
	}
	t.ActiveObject = NewActiveObject(controller, priority, typeID, id, hasIdentity, nil)
	t.ActiveObject.SetProcessHook(t.processInternal)
	return t
}

// IsCompleted reports whether an exit code has been set. If listener
// is non-nil and the task has not yet completed, listener is parked
// on CompletedSignal so the caller is woken on completion.
func (t *AbstractTask) IsCompleted(listener *Listener) bool {
	if t.exitCode != nil {
		return true
	}
	if listener != nil {
		listener.Wait(t.CompletedSignal)
	}
	return false
}

// IsCancelled reports whether Cancel has been requested.
func (t *AbstractTask) IsCancelled() bool { return t.cancelRequested }

// IsKillRequested reports whether Cancel was requested with kill=true.
func (t *AbstractTask) IsKillRequested() bool { return t.killRequested }

// GetExitCode returns the task's exit code, or nil if still running.
func (t *AbstractTask) GetExitCode() *int { return t.exitCode }

// Err returns the error that caused the task to fail, if any.
func (t *AbstractTask) Err() error { return t.err }

// SetExitCode records the task's outcome the first time it is called;
// subsequent calls are no-ops. It signals the agent before writing
// the code, matching the source's ordering (see DESIGN.md) — callers
// that inspect exitCode from within the same tick already hold a
// signal.
func (t *AbstractTask) SetExitCode(code int) {
	if t.exitCode != nil {
		return
	}
	t.Signal()
	t.exitCode = &code
}

// setError records the failure cause alongside an exit code of -1.
func (t *AbstractTask) setError(err error) {
	t.err = err
	t.SetExitCode(-1)
}

// Cancel requests cooperative cancellation, and optionally kill
// (a harder stop a subclass may interpret as SIGKILL rather than
// SIGTERM). Both bits are sticky and each signals the agent exactly
// once, the first time they transition.
func (t *AbstractTask) Cancel(kill bool) {
	if !t.cancelRequested {
		t.cancelRequested = true
		t.Signal()
	}
	if kill && !t.killRequested {
		t.killRequested = true
		t.Signal()
	}
}

// Close fires CompletedSignal one final time (unparking any
// still-waiting listener) and then closes the underlying agent.
func (t *AbstractTask) Close() {
	t.CompletedSignal.Close()
	t.ActiveObject.Close()
}

// processInternal runs the wrapped step (if any), then — once the
// task reports itself completed — fires CompletedSignal and closes
// the agent. A task with no inner step simply waits to be completed
// externally via SetExitCode.
func (t *AbstractTask) processInternal(ctx *TickContext) error {
	var err error
	if t.inner != nil {
		err = t.inner(ctx)
	}
	if t.IsCompleted(nil) {
		t.CompletedSignal.SignalAll()
		t.Close()
	}
	return err
}

// cancelReason is the context.Cause carried by an AsyncTaskProcess's
// context when Cancel is called, distinguishing a plain cancel from a
// kill the way the source conveys "Canceled" vs "Killed" as a string
// reason passed to the underlying coroutine's cancellation.
type cancelReason struct{ kill bool }

func (r cancelReason) Error() string {
	if r.kill {
		return "killed"
	}
	return "canceled"
}

// IsKillCause reports whether ctx was cancelled via a kill request
// rather than a plain cancel. An AsyncTaskFunc that wants to react
// differently to the two (e.g. skip a graceful-shutdown step) inspects
// this instead of a second context value key.
func IsKillCause(ctx context.Context) bool {
	var reason cancelReason
	return errors.As(context.Cause(ctx), &reason) && reason.kill
}

// AsyncTaskFunc is the goroutine-backed computation an
// [AsyncTaskProcess] runs off the loop goroutine. ctx is cancelled (see
// IsKillCause) when Cancel is called on the owning task. A nil return
// means success (exit code 0, or a subclass-supplied code); a non-nil
// return is captured via Err and the task exits with code -1.
type AsyncTaskFunc func(ctx context.Context) error

// AsyncTaskProcess runs an AsyncTaskFunc on its own goroutine and
// reconciles the result back onto the controller's loop goroutine via
// ThreadsafeAsyncCall — the Go-specific fix for a Python original that
// could safely mutate scheduler state directly from an asyncio task
// because asyncio is cooperative single-threaded. See DESIGN.md's
// "documented deviations" for the full rationale.
type AsyncTaskProcess struct {
	*AbstractTask

	cancelAsyncTask bool
	cancel          context.CancelCauseFunc

	// exitCodeFunc, if set, supplies the exit code reported on a nil
	// return from fn, instead of the default of 0. SystemTaskProcess
	// uses this to report the real OS exit code.
	exitCodeFunc func() int
}

// NewAsyncTaskProcess constructs an AsyncTaskProcess under controller
// and immediately launches fn on a new goroutine.
func NewAsyncTaskProcess(controller *Controller, fn AsyncTaskFunc) *AsyncTaskProcess {
	p := &AsyncTaskProcess{cancelAsyncTask: true}
	p.AbstractTask = NewAbstractTask(controller, 0, "", "", false, nil)
	p.AbstractTask.inner = p.tick
	p.launch(fn)
	return p
}

func (p *AsyncTaskProcess) launch(fn AsyncTaskFunc) {
	if fn == nil {
		fn = func(context.Context) error { return nil }
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	p.cancel = cancel
	controller := p.Controller()
	go func() {
		err := fn(ctx)
		controller.ThreadsafeAsyncCall(func() {
			if err != nil {
				p.setError(err)
			} else {
				code := 0
				if p.exitCodeFunc != nil {
					code = p.exitCodeFunc()
				}
				p.SetExitCode(code)
			}
			p.CompletedSignal.SignalAll()
		})
	}()
}

// tick is the AbstractTask inner hook: the goroutine does all the
// actual work, so there is nothing left to poll here besides letting
// processInternal notice completion and close.
func (p *AsyncTaskProcess) tick(_ *TickContext) error { return nil }

// CancelAsyncTask cancels fn's context (so a well-behaved AsyncTaskFunc
// observing ctx.Done() can stop promptly) and, matching the source's
// synchronous force-complete, immediately reports exit code -1 if the
// task has not already completed by the time this is called.
func (p *AsyncTaskProcess) CancelAsyncTask(kill bool) {
	if p.cancel != nil {
		p.cancel(cancelReason{kill: kill})
	}
	if p.GetExitCode() != nil {
		return
	}
	p.SetExitCode(-1)
	p.CompletedSignal.SignalAll()
}

// Cancel requests cooperative cancellation. If this task's goroutine
// has no other way to be stopped (cancelAsyncTask is true, the
// default), Cancel also forces immediate completion — the source's
// "cancelling is all we can do to an opaque coroutine" behavior.
func (p *AsyncTaskProcess) Cancel(kill bool) {
	p.AbstractTask.Cancel(kill)
	if p.cancelAsyncTask {
		p.CancelAsyncTask(kill)
	}
}

// Close closes the underlying task. The background goroutine, if
// still running, completes independently. Its final
// ThreadsafeAsyncCall changes nothing if an exit code was already
// recorded; otherwise it records one and signals the closed agent,
// whose next dispatch closes it again.
func (p *AsyncTaskProcess) Close() {
	p.AbstractTask.Close()
}
