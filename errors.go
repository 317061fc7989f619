package taskgraph

import "errors"

const Namespace = "taskgraph"

var (
	// ErrNoCores is returned by Initialize when intersecting the requested
	// affinity mask with the process's own affinity mask yields no usable
	// core. This is an environmental hard failure: Initialize returns before
	// spawning any worker.
	ErrNoCores = errors.New(Namespace + ": no cores available after intersecting affinity masks")

	// ErrSelfDependency is the underlying error wrapped into a panic when a
	// task is constructed with itself among its own dependencies. This is a
	// programmer error.
	ErrSelfDependency = errors.New(Namespace + ": task cannot depend on itself")

	// ErrDoubleReschedule is wrapped into a panic when a task calls
	// RescheduleTask or YieldTask more than once within a single execution.
	ErrDoubleReschedule = errors.New(Namespace + ": task rescheduled or yielded more than once in one execution")

	// ErrQueueFull is wrapped into a panic when pushBack is called on a
	// taskQueue that is already at capacity.
	ErrQueueFull = errors.New(Namespace + ": task queue is full")

	// ErrLatchUnderflow is wrapped into a panic when Signal is called on a
	// Latch whose counter is already zero.
	ErrLatchUnderflow = errors.New(Namespace + ": latch signaled below zero")

	// ErrLatchResetWithWaiters is wrapped into a panic when Reset is called
	// while goroutines are blocked in Wait and the counter has not yet
	// reached zero.
	ErrLatchResetWithWaiters = errors.New(Namespace + ": latch reset while waiters are pending")
)
