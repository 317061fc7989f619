package taskgraph

import (
	"sync"
	"sync/atomic"
)

// Task is a unit of deferred, non-blocking computation: it carries a
// callable, a dependency counter, and a list of successors.
//
// A Task is constructed inside a running task (or by Scheduler.Detach) via
// the Context; callers never allocate a Task directly.
type Task struct {
	callable func(*Context)

	depCount atomic.Int64

	mu         sync.Mutex
	successors []*Task
	completed  bool

	// isContinuation marks this task as having been registered as a
	// continuation of its creator within some Context's continuations list.
	// It has no effect on scheduling; it only aids diagnostics.
	isContinuation bool
}

// reset clears a Task so it can be reused by the node allocator. It must
// only be called on a Task that is not reachable from any other goroutine.
func (t *Task) reset(callable func(*Context)) {
	t.callable = callable
	t.depCount.Store(1)
	t.successors = t.successors[:0]
	t.completed = false
	t.isContinuation = false
}

// addDependencies registers t as a successor of each task in deps that has
// not yet completed, and credits t's counter by len(deps). A dependency that
// has already completed contributes 0 rather than 1. Self-dependency panics.
func (t *Task) addDependencies(deps []*Task) {
	for _, d := range deps {
		if d == t {
			panic(ErrSelfDependency)
		}
	}
	if len(deps) == 0 {
		return
	}
	t.depCount.Add(int64(len(deps)))
	for _, d := range deps {
		if !d.registerSuccessor(t) {
			t.depCount.Add(-1)
		}
	}
}

// registerSuccessor appends t as a successor of d, unless d has already
// completed, in which case it reports false and does not append.
func (d *Task) registerSuccessor(t *Task) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.completed {
		return false
	}
	d.successors = append(d.successors, t)
	return true
}

// scheduleIfReady atomically decrements the dependency count and reports
// whether it transitioned to zero. The caller is then responsible for
// enqueuing the task exactly once.
func (t *Task) scheduleIfReady() bool {
	return t.depCount.Add(-1) == 0
}

// completeAndCollect marks the task completed and drains its successor
// list. It must be called at most once per task, by the worker that ran it,
// after the callable has returned and no continuation claimed the chain.
func (t *Task) completeAndCollect() []*Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed = true
	out := t.successors
	t.successors = nil
	return out
}

// continueWith moves this task's successor list into other's successor
// list and marks this task completed, exactly as completeAndCollect would,
// so that a dependency registered against t afterwards (addDependencies
// holds a *Task handle that outlives t's own execution) sees t.completed
// and is credited immediately rather than appended to a successor list that
// will never be visited again. other is always a task this same worker
// just created and has not yet published anywhere else, so there is no
// concurrent access to guard against beyond t's own successor list, which a
// stealing thief never touches directly (thieves only ever move whole
// *Task pointers between queues).
func (t *Task) continueWith(other *Task) {
	t.mu.Lock()
	moved := t.successors
	t.successors = nil
	t.completed = true
	t.mu.Unlock()

	other.mu.Lock()
	other.successors = append(other.successors, moved...)
	other.mu.Unlock()
}
