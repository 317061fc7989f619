package taskgraph

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/corework/taskgraph/affinity"
)

type workerState int32

const (
	workerNew workerState = iota
	workerReady
	workerRunning
	workerStarving
	workerStopped
)

// Worker is a thread-bound event loop: it fetches tasks from its own queue,
// runs them, and emits signals on enqueue, starvation, and readiness. Each
// Worker owns exactly one Context and one taskQueue.
type Worker struct {
	id     int
	sched  *Scheduler
	queue  *taskQueue
	ctx    *Context
	cpu    int
	hasCPU bool
	log    *logrus.Entry

	state atomic.Int32

	mu   sync.Mutex
	cond *sync.Cond

	stopCh chan struct{}
	doneCh chan struct{}
}

func newWorker(id int, sched *Scheduler, queueCapacity int, alloc taskAllocator, cpu int, hasCPU bool, log *logrus.Entry) *Worker {
	w := &Worker{
		id:     id,
		sched:  sched,
		queue:  newTaskQueue(queueCapacity),
		cpu:    cpu,
		hasCPU: hasCPU,
		log:    log,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	w.ctx = newContext(w, alloc)
	w.state.Store(int32(workerNew))
	return w
}

func (w *Worker) State() workerState { return workerState(w.state.Load()) }

// run is the worker's event loop. It is intended to be launched with
// `go w.run()` by the Scheduler; it does not return until stop() has been
// called and the loop reaches its next fetch boundary.
func (w *Worker) run() {
	defer close(w.doneCh)

	runtime.LockOSThread() // never unlocked: the thread exits with this goroutine

	if w.hasCPU {
		if err := affinity.PinThread(affinity.FromCPUs(w.cpu)); err != nil {
			w.log.WithError(err).WithField("cpu", w.cpu).Warn("failed to pin worker thread, continuing unpinned")
		}
	}

	w.state.Store(int32(workerReady))
	w.sched.onWorkerReady(w)

	// Wait for every peer to have announced READY too, so that stealing
	// never targets an uninitialized worker.
	w.sched.startLatch.Wait()

	w.state.Store(int32(workerRunning))

	for {
		select {
		case <-w.stopCh:
			w.state.Store(int32(workerStopped))
			w.queue.clear()
			return
		default:
		}

		t := w.queue.popBack()
		if t == nil {
			w.state.Store(int32(workerStarving))
			w.sched.onWorkerStarving(w)

			t = w.waitForWork()
			if t == nil {
				// woken by stop()
				continue
			}
			w.state.Store(int32(workerRunning))
		}

		w.runChain(t)
	}
}

// waitForWork blocks until a task is pushed onto this worker's queue or
// stop() is called, whichever happens first. It returns nil in the latter
// case.
func (w *Worker) waitForWork() *Task {
	w.mu.Lock()
	for {
		select {
		case <-w.stopCh:
			w.mu.Unlock()
			return nil
		default:
		}
		if t := w.queue.popBack(); t != nil {
			w.mu.Unlock()
			return t
		}
		w.cond.Wait()
	}
}

// runChain executes t and, without returning to the queue, keeps executing
// whatever the fast path hands back: first a continuation (if the task
// registered one), otherwise one ready pending task created by the task's
// own execution.
func (w *Worker) runChain(t *Task) {
	for t != nil {
		w.ctx.beginExecution(t)
		panicked, recovered := w.runOne(t)
		w.ctx.endExecution()

		if !panicked {
			if cont := w.ctx.takeContinuation(t); cont != nil {
				t = cont
				continue
			}
		}

		successors := t.completeAndCollect()
		w.fanOut(successors)
		w.sched.metricTasksExecuted.Add(1)

		next := w.ctx.schedulePendingTasks(w)
		if panicked {
			// Successors are already fanned out above; re-raise only now
			// (spec.md §7: propagation of successors must still be
			// performed before the error is re-surfaced).
			panic(recovered)
		}
		t = next
	}
}

// runOne invokes the task's callable, recovering any panic instead of
// letting it unwind runChain directly, so the caller can still propagate
// successors before re-raising it.
func (w *Worker) runOne(t *Task) (panicked bool, recovered any) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			recovered = r
			w.log.WithField("panic", r).Error("task callable panicked")
		}
	}()
	t.callable(w.ctx)
	return false, nil
}

// fanOut schedules every successor that becomes ready, enqueuing it on this
// worker's own queue (the worker that observed the dependency satisfied is
// the one that enqueues it, per spec.md §4.2).
func (w *Worker) fanOut(successors []*Task) {
	for _, s := range successors {
		if s.scheduleIfReady() {
			w.enqueueLocal(s)
		}
	}
}

// enqueueLocal pushes t onto this worker's own queue and wakes it if it is
// waiting, then notifies the scheduler so a burst of work can be
// redistributed to a starving peer.
func (w *Worker) enqueueLocal(t *Task) {
	w.queue.pushBack(t)
	w.mu.Lock()
	w.cond.Signal()
	w.mu.Unlock()
	w.sched.onTaskEnqueued(w)
}

// enqueueForeign is called by the scheduler when handing a stolen task to a
// different (starving) worker.
func (w *Worker) enqueueForeign(t *Task) {
	w.queue.pushBack(t)
	w.mu.Lock()
	w.cond.Signal()
	w.mu.Unlock()
}

// steal attempts to take the oldest task from this worker's queue on
// behalf of another worker or the scheduler. It never blocks.
func (w *Worker) steal() *Task {
	return w.queue.popFront()
}

// stop requests termination; the worker exits at the next fetch boundary
// and any tasks remaining in its queue are dropped, never executed.
func (w *Worker) stop() {
	select {
	case <-w.stopCh:
		// already stopped
	default:
		close(w.stopCh)
	}
	w.mu.Lock()
	w.cond.Broadcast()
	w.mu.Unlock()
}

// wait blocks until the worker's run loop has returned.
func (w *Worker) wait() {
	<-w.doneCh
}
