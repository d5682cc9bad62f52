package activeobjects

import (
	"context"
	"os/exec"
	"sync"
	"syscall"
)

// SystemTaskProcess runs an external command as an OS process and
// reports its exit code as task completion, on top of
// [AsyncTaskProcess]'s goroutine-reconciliation machinery. It differs
// from a plain AsyncTaskProcess only in how Cancel is implemented:
// rather than abandoning an opaque goroutine, it has a precise way to
// stop the work (signal the child process), so it sets
// cancelAsyncTask to false and drives cancellation through os/exec
// directly.
type SystemTaskProcess struct {
	*AsyncTaskProcess

	args []string
	dir  string

	mu   sync.Mutex
	cmd  *exec.Cmd
	code int
}

// NewSystemTaskProcess constructs a task that runs args[0] with
// args[1:] as arguments, in dir (the caller's working directory if
// dir is empty), discarding its stdout/stderr, and launches it
// immediately.
func NewSystemTaskProcess(controller *Controller, args []string, dir string) *SystemTaskProcess {
	p := &SystemTaskProcess{args: args, dir: dir}
	p.AsyncTaskProcess = &AsyncTaskProcess{cancelAsyncTask: false}
	p.AbstractTask = NewAbstractTask(controller, 0, "", "", false, nil)
	p.AbstractTask.inner = p.tick
	p.exitCodeFunc = p.exitCode
	p.launch(p.run)
	return p
}

func (p *SystemTaskProcess) exitCode() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.code
}

// run is this task's AsyncTaskFunc. It ignores ctx for the process's
// own lifetime (Cancel drives the real OS process directly via
// cmd.Process), but still honors an already-cancelled ctx so the
// CancelAsyncTask fallback (used before the process has been spawned)
// can prevent it from starting at all.
func (p *SystemTaskProcess) run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := exec.Command(p.args[0], p.args[1:]...)
	cmd.Dir = p.dir

	p.mu.Lock()
	p.cmd = cmd
	p.mu.Unlock()

	err := cmd.Run()

	p.mu.Lock()
	p.cmd = nil
	p.mu.Unlock()

	var code int
	switch exitErr := err.(type) {
	case nil:
		code = cmd.ProcessState.ExitCode()
	case *exec.ExitError:
		code = exitErr.ExitCode()
	default:
		return err
	}
	p.mu.Lock()
	p.code = code
	p.mu.Unlock()
	return nil
}

// Cancel terminates the child process: SIGTERM normally, or the
// platform's hard-kill signal if kill is true. If the child has not
// started yet (or has already exited), Cancel falls back to
// AsyncTaskProcess's generic CancelAsyncTask bookkeeping so the task
// still completes.
func (p *SystemTaskProcess) Cancel(kill bool) {
	p.AbstractTask.Cancel(kill)

	p.mu.Lock()
	cmd := p.cmd
	p.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		p.CancelAsyncTask(kill)
		return
	}
	if kill {
		_ = cmd.Process.Kill()
	} else {
		_ = cmd.Process.Signal(syscall.SIGTERM)
	}
}

// Close releases the process reference. The underlying process, if
// still running, is left to exit on its own (Cancel is what should be
// used to stop it); Close only tears down scheduler bookkeeping.
func (p *SystemTaskProcess) Close() {
	p.mu.Lock()
	p.cmd = nil
	p.mu.Unlock()
	p.AsyncTaskProcess.Close()
}
