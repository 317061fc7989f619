package taskgraph

import "github.com/corework/taskgraph/pool"

// taskAllocator is the node-allocator contract a Context uses to obtain
// *Task values: get() is the stock free-store "new" interface spec.md
// requires of the allocator external collaborator. Each worker's Context has
// its own allocator; it is called by that worker and, through
// Scheduler.Detach, by goroutines outside any task.
//
// There is deliberately no put()/recycle method: a *Task returned by
// EmplaceTask/EmplaceTaskContinuation/DetachTask is a handle a caller may
// legally retain and reuse as a dependency long after the task it names has
// finished executing (spec.md §3: "destroyed when the last reference... is
// released"), so no point in the scheduler can ever prove a given *Task has
// become unreachable. Recycling it eagerly would risk aliasing a live
// *Task across two logically distinct tasks. See DESIGN.md for why
// WithFixedTaskPool was removed rather than wired up.
type taskAllocator interface {
	get() *Task
}

// poolAllocator adapts pool.Pool's generic Get to taskAllocator. Every
// worker gets its own poolAllocator. It is always backed by
// pool.NewDynamic, a thin sync.Pool wrapper that is safe for the concurrent
// Get calls Scheduler.Detach can make alongside the worker: an item never handed back via
// Put simply isn't recycled, and sync.Pool.Get falls back to New in that
// case, unlike a bounded pool.NewFixed, which would starve or alias.
type poolAllocator struct {
	p pool.Pool
}

func newPoolAllocator() *poolAllocator {
	return &poolAllocator{p: pool.NewDynamic(func() interface{} { return &Task{} })}
}

func (a *poolAllocator) get() *Task {
	return a.p.Get().(*Task)
}
