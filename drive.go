package activeobjects

// RunBlocking drives controller synchronously on the calling
// goroutine: it calls Process in a loop, and between ticks blocks
// until the reported deadline passes on the controller's clock or
// until Wakeup is called (with no deadline, it waits for Wakeup
// alone), until Terminate is called or a tick returns an error.
// Intended for single-threaded daemons and for tests that want real
// wall-clock timing without a second goroutine.
func RunBlocking(controller *Controller, opts ...ProcessOption) error {
	for {
		next, err := controller.Process(opts...)
		if err != nil {
			return err
		}
		if controller.Terminated() {
			return nil
		}
		if next == nil {
			controller.state.Store(StateSleeping)
			<-controller.wakeupCh
			continue
		}
		d := next.Sub(controller.Now())
		if d <= 0 {
			continue
		}
		controller.state.Store(StateSleeping)
		select {
		case <-controller.wakeupCh:
		case <-controller.clock.After(d):
		}
	}
}

// RunAsync drives controller on its own goroutine, returning a
// channel that is closed when the drive loop exits (after Terminate,
// or after a tick errors — in which case the error is sent on errCh
// first). Stop the loop early by calling controller.Terminate on the
// loop goroutine: from a process hook, or from another goroutine via
// controller.ThreadsafeAsyncCall(controller.Terminate).
func RunAsync(controller *Controller, opts ...ProcessOption) (done <-chan struct{}, errCh <-chan error) {
	d := make(chan struct{})
	e := make(chan error, 1)
	go func() {
		defer close(d)
		if err := RunBlocking(controller, opts...); err != nil {
			e <- err
		}
	}()
	return d, e
}

// RunASAP drives controller as fast as possible against an
// *EmulatedClock, advancing the clock to each tick's reported next
// deadline instead of sleeping — for deterministic, instantaneous
// end-to-end tests. It returns a [NoDeadlineError] if a tick reports no
// pending deadline while the controller is not yet terminated, since
// that means the simulated system has gone permanently idle with
// nothing left to advance time toward.
func RunASAP(controller *Controller, clock *EmulatedClock, opts ...ProcessOption) error {
	for {
		next, err := controller.Process(opts...)
		if err != nil {
			return err
		}
		if controller.Terminated() {
			return nil
		}
		if next == nil {
			return &NoDeadlineError{}
		}
		if d := next.Sub(clock.Now()); d > 0 {
			clock.Advance(d)
		}
	}
}
