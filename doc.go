// Package activeobjects implements the core of a cooperative,
// in-process active-object scheduler: a framework on top of which
// long-lived stateful agents react to time-based and signal-based
// events, coordinated within a single logical execution thread.
//
// # Architecture
//
// A [Controller] holds three structures that answer "which agent runs
// next, and when must I wake up again?" on every tick:
//
//   - a by-time [Tree] ordering every scheduled [ActiveObject] by its
//     pending wakeup time;
//   - a by-identity [Tree] ordering every identity-indexed
//     [ActiveObject] by (typeID, id), for O(log n) Find and ordered
//     ForEachObject traversal;
//   - one FIFO ready [List] per priority level, holding every
//     currently-signaled [ActiveObject].
//
// [Controller.Process] is one tick: it drains the thread-safe async
// inbox, promotes every time-expired agent into its ready queue, then
// dispatches a bounded batch (10 by default) of ready agents before
// re-checking time-expired work — so a flood of signals can't starve
// newly-arrived deadlines, and vice versa.
//
// # Agent lifecycle
//
// An [ActiveObject] exposes Schedule/Unschedule/Signal/Resignal/Close.
// Schedule is monotone toward sooner: a later time is always ignored
// in favor of an earlier pending one. [RetryableAgent] decorates the
// process hook with exponential backoff; the tasks layer
// ([AbstractTask], [AsyncTaskProcess], [SystemTaskProcess]) decorates
// it further with a completion signaler and cooperative cancellation.
// Both are built as ProcessFunc decorators rather than subclasses —
// see DESIGN.md for the rationale.
//
// # Signaling primitives
//
// [Signaler]/[Listener]/[AOListener] provide one-shot fan-out. [Flag]
// is a level-triggered boolean with independent up/down waiter
// queues, paired with [FlagListener]. [SignalPub]/[SignalSub] provide
// the edge/level pub-sub variant, where a subscriber in edge mode
// suppresses repeat notifications while it remains set.
//
// # Drive loops
//
// [RunAsync] sleeps between ticks using the controller's [Clock] and
// wakeup channel; [RunBlocking] is the synchronous equivalent for
// single-threaded daemons and tests; [RunASAP] advances an
// [EmulatedClock] to each tick's reported deadline instead of
// sleeping, for deterministic end-to-end tests — and treats "no
// pending deadline while still alive" as the fatal [NoDeadlineError].
//
// # Concurrency
//
// All mutation of trees, lists, agents, and signal graphs happens on
// the goroutine driving the Controller. Exactly two operations are
// safe to call from any other goroutine: [Controller.Wakeup] and
// [Controller.ThreadsafeAsyncCall]. Everything else — including
// Terminate — is loop-goroutine-only.
package activeobjects
