package taskgraph

// Context is the per-worker workspace through which a running task spawns
// children, declares continuations, yields, or reschedules. It is owned
// exclusively by the Worker that runs it: whichever worker executes a given
// Task (its own, or one it stole) passes its own Context to that Task's
// callable. The one call made from another goroutine is DetachTask, which
// Scheduler.Detach invokes from the caller's goroutine; it touches only the
// allocator and the worker's mutex-guarded queue. This reproduces the
// "thread-local execution context" of spec.md without goroutine-local
// emulation. See SPEC_FULL.md §9.
type Context struct {
	worker *Worker
	pool   taskAllocator

	// pending holds tasks created by the task currently executing,
	// awaiting dependency resolution.
	pending []*Task

	// continuations is a subset of pending: tasks that act as
	// continuations of the current task.
	continuations []*Task

	// current is the task presently executing on this worker, non-nil only
	// for the duration of its callable.
	current *Task

	// rescheduledOrYielded guards the "at most once per execution" rule for
	// RescheduleTask/YieldTask.
	rescheduledOrYielded bool
}

func newContext(w *Worker, pool taskAllocator) *Context {
	return &Context{worker: w, pool: pool}
}

// EmplaceTask constructs a task in the current context's pool and appends it
// to pending, returning a strong reference. deps may be empty.
func (c *Context) EmplaceTask(deps []*Task, fn func(*Context)) *Task {
	t := c.pool.get()
	t.reset(fn)
	t.addDependencies(deps)
	c.pending = append(c.pending, t)
	return t
}

// EmplaceTaskContinuation behaves like EmplaceTask and additionally marks
// the task as a continuation candidate: when the currently executing task
// completes, the last continuation registered this way inherits its
// successors. If it has no unresolved dependencies of its own it is executed
// next on this worker without a queue round-trip; otherwise it is enqueued
// once those dependencies complete.
func (c *Context) EmplaceTaskContinuation(deps []*Task, fn func(*Context)) *Task {
	t := c.EmplaceTask(deps, fn)
	t.isContinuation = true
	c.continuations = append(c.continuations, t)
	return t
}

// RescheduleTask schedules the currently executing task again as a new task
// with the given dependencies. It is mutually exclusive with YieldTask and
// may be called at most once per execution; calling it twice in the same
// execution panics.
func (c *Context) RescheduleTask(deps []*Task) {
	cur := c.mustCurrentForReschedule()
	t := c.pool.get()
	t.reset(cur.callable)
	t.addDependencies(deps)
	c.pending = append(c.pending, t)
}

// YieldTask schedules the currently executing task as a continuation of
// itself, taking on the given dependencies. Same mutual-exclusion rules as
// RescheduleTask.
func (c *Context) YieldTask(deps []*Task) {
	cur := c.mustCurrentForReschedule()
	t := c.pool.get()
	t.reset(cur.callable)
	t.addDependencies(deps)
	t.isContinuation = true
	c.pending = append(c.pending, t)
	c.continuations = append(c.continuations, t)
}

func (c *Context) mustCurrentForReschedule() *Task {
	if c.rescheduledOrYielded {
		panic(ErrDoubleReschedule)
	}
	if c.current == nil {
		panic("taskgraph: RescheduleTask/YieldTask called outside a running task")
	}
	c.rescheduledOrYielded = true
	return c.current
}

// DetachTask spawns a no-dependency, no-successor task that is immediately
// eligible for execution, pushes it onto this worker's queue and notifies the
// scheduler through onTaskEnqueued, fire-and-forget.
func (c *Context) DetachTask(fn func(*Context)) *Task {
	t := c.pool.get()
	t.reset(fn)
	t.scheduleIfReady() // consume the single "not yet scheduled" guard
	c.worker.enqueueLocal(t)
	return t
}

// beginExecution marks task as the one currently running on this worker.
func (c *Context) beginExecution(task *Task) {
	c.current = task
	c.rescheduledOrYielded = false
}

// endExecution clears the reschedulable slot.
func (c *Context) endExecution() {
	c.current = nil
}

// takeContinuation returns the last continuation registered for the task
// that just finished executing, transplanting its successor list onto the
// continuation and removing it from pending so it is not re-enqueued
// through the normal pending path. The transplant happens unconditionally;
// the continuation itself is only handed back for immediate, same-worker
// execution if it has no unresolved dependencies of its own (the common
// case: EmplaceTaskContinuation/YieldTask with no extra deps). Otherwise it
// is left to the ordinary dependency graph: it was already registered as a
// successor of its own dependencies by addDependencies, so it is enqueued
// normally once those complete. It returns nil if no continuation was
// registered during this execution, or if one was but is not yet ready.
func (c *Context) takeContinuation(finished *Task) *Task {
	n := len(c.continuations)
	if n == 0 {
		return nil
	}
	cont := c.continuations[n-1]
	// Earlier continuations stay in pending as ordinary tasks; they must not
	// be taken as the continuation of cont when it finishes.
	c.continuations = nil

	finished.continueWith(cont)

	for i, p := range c.pending {
		if p == cont {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			break
		}
	}

	if cont.scheduleIfReady() {
		return cont
	}
	return nil
}

// schedulePendingTasks calls scheduleIfReady on every task remaining in
// pending, enqueuing those that become ready onto w's own queue except for
// one, which is returned directly so the worker can run it without a queue
// round-trip (the fast path). It returns nil if no pending task became
// ready. pending and continuations are cleared unconditionally.
func (c *Context) schedulePendingTasks(w *Worker) *Task {
	pending := c.pending
	c.pending = nil
	c.continuations = nil

	var fastPath *Task
	for _, t := range pending {
		if !t.scheduleIfReady() {
			continue
		}
		if fastPath == nil {
			fastPath = t
			continue
		}
		w.enqueueLocal(t)
	}
	return fastPath
}
