// Package taskgraph provides a multi-worker, work-stealing scheduler for
// fine-grained, non-blocking tasks with user-declared dependency graphs,
// continuations, and rescheduling.
//
// Lifecycle
//   - Initialize(opts...) spawns one worker per selected CPU core and blocks
//     until every worker has reported ready.
//   - Scheduler.Detach submits a no-dependency task from outside any running
//     task (typically the outermost caller).
//   - Inside a running task, the *Context passed to the callable is the only
//     way to spawn children, declare continuations, yield, or reschedule.
//
// A task is a func(*Context). Dependencies are declared at construction time
// via EmplaceTask/EmplaceTaskContinuation; a task is enqueued automatically
// the instant its dependency count reaches zero.
//
// Non-goals: preemption, mid-execution suspension, priorities, fairness (a
// worker runs its own queue LIFO), cooperating with blocking I/O, NUMA-aware
// stealing, cross-process or cross-machine scheduling.
package taskgraph
