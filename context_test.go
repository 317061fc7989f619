package taskgraph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Scenario: continuation fast path. A task registers a continuation; when it
// finishes, the continuation must run on the same worker without a queue
// round-trip, and must inherit the original task's successors.
func TestContinuation_FastPath_NoQueueRoundTrip(t *testing.T) {
	s := newUnpinnedScheduler(1)
	defer s.Shutdown()

	owner := s.workers[0]

	var order []string
	done := make(chan struct{})

	downstream := owner.ctx.pool.get()
	downstream.reset(func(c *Context) {
		order = append(order, "downstream")
		close(done)
	})

	first := owner.ctx.pool.get()
	first.reset(func(c *Context) {
		order = append(order, "first")
		cont := c.EmplaceTaskContinuation(nil, func(c *Context) {
			order = append(order, "continuation")
		})
		_ = cont
	})
	downstream.addDependencies([]*Task{first})

	first.scheduleIfReady()
	downstream.scheduleIfReady()
	owner.enqueueLocal(first)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("chain never completed")
	}

	require.Equal(t, []string{"first", "continuation", "downstream"}, order)
	require.Zero(t, owner.queue.len(), "continuation must not have round-tripped through the queue")
}

// Scenario: reschedule. A task reschedules itself with a new dependency set;
// the rescheduled instance must run again once those dependencies resolve,
// and calling RescheduleTask twice in one execution must panic.
func TestRescheduleTask_RunsAgainAfterNewDependency(t *testing.T) {
	s := newUnpinnedScheduler(1)
	defer s.Shutdown()

	owner := s.workers[0]

	gate := owner.ctx.pool.get()
	gate.reset(func(c *Context) {})

	var runs int
	done := make(chan struct{})
	task := owner.ctx.pool.get()
	task.reset(func(c *Context) {
		runs++
		if runs == 1 {
			c.RescheduleTask([]*Task{gate})
			return
		}
		close(done)
	})

	task.scheduleIfReady()
	owner.enqueueLocal(task)

	// Let the first run happen and register its dependency on gate, then
	// release gate so the rescheduled instance becomes ready.
	require.Eventually(t, func() bool { return runs >= 1 }, time.Second, time.Millisecond)

	for _, succ := range gate.completeAndCollect() {
		if succ.scheduleIfReady() {
			owner.enqueueLocal(succ)
		}
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("rescheduled task never ran again")
	}
	require.Equal(t, 2, runs)
}

func TestRescheduleTask_TwicePanics(t *testing.T) {
	w := newWorker(0, nil, defaultQueueCapacity, newPoolAllocator(), 0, false, componentLogger(nil, "worker"))
	ctx := w.ctx

	task := newLeafTask(nil)
	ctx.beginExecution(task)
	ctx.RescheduleTask(nil)
	require.Panics(t, func() { ctx.RescheduleTask(nil) })
}

func TestYieldTask_MarksContinuation(t *testing.T) {
	w := newWorker(0, nil, defaultQueueCapacity, newPoolAllocator(), 0, false, componentLogger(nil, "worker"))
	ctx := w.ctx

	task := newLeafTask(nil)
	ctx.beginExecution(task)
	ctx.YieldTask(nil)

	require.Len(t, ctx.continuations, 1)
	require.True(t, ctx.continuations[0].isContinuation)
}
