package taskgraph

import (
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/corework/taskgraph/affinity"
	"github.com/corework/taskgraph/metrics"
)

// Scheduler is the process-wide orchestrator: it owns the worker pool,
// arbitrates starvation and task hand-off, and exposes the public
// task-spawn entry point for callers outside any running task.
//
// Unlike the source this module is ported from, Scheduler is an explicit
// handle rather than a hidden global singleton, so a process (or a test)
// may run more than one independently (SPEC_FULL.md §9).
type Scheduler struct {
	workers []*Worker

	mu       sync.Mutex
	starving map[*Worker]struct{}

	rngMu sync.Mutex
	rng   *rand.Rand

	startLatch *Latch

	log     *logrus.Entry
	metrics metrics.Provider

	metricTasksExecuted  metrics.Counter
	metricStealsSucceed  metrics.Counter
	metricStealsFail     metrics.Counter
	metricStarvingEvents metrics.Counter
	metricsWorkersUpDown metrics.UpDownCounter
}

// Initialize determines the set of cores to use by intersecting the
// caller-supplied affinity mask (via WithAffinity, or the full process mask
// by default) with the process's own affinity mask, spawns one worker per
// selected core, attempts to pin each to its core (pinning failure is
// logged and ignored), and blocks until every worker has reported ready.
//
// Initialize returns ErrNoCores if the intersection is empty; no worker is
// spawned in that case.
func Initialize(opts ...Option) (*Scheduler, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			panic("taskgraph: nil option")
		}
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	procMask, err := affinity.ProcessMask()
	if err != nil {
		return nil, err
	}

	requested := procMask
	if cfg.affinityMaskSet {
		requested = cfg.affinityMask
	}
	selected := requested.Intersect(procMask)
	if selected.Empty() {
		return nil, ErrNoCores
	}

	log := componentLogger(cfg.logger, "scheduler")
	provider := cfg.metricsProvider

	s := &Scheduler{
		starving:   make(map[*Worker]struct{}),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		startLatch: NewLatch(selected.Len()),
		log:        log,
		metrics:    provider,

		metricTasksExecuted:  provider.Counter("taskgraph_tasks_executed_total"),
		metricStealsSucceed:  provider.Counter("taskgraph_steals_succeeded_total"),
		metricStealsFail:     provider.Counter("taskgraph_steals_failed_total"),
		metricStarvingEvents: provider.Counter("taskgraph_starving_events_total"),
		metricsWorkersUpDown: provider.UpDownCounter("taskgraph_workers_running"),
	}

	cpus := selected.CPUs()
	s.workers = make([]*Worker, len(cpus))
	for i, cpu := range cpus {
		wlog := componentLogger(cfg.logger, "worker")
		s.workers[i] = newWorker(i, s, cfg.queueCapacity, newPoolAllocator(), cpu, true, wlog.WithField("worker", i))
	}

	for _, w := range s.workers {
		go w.run()
	}

	s.startLatch.Wait()
	s.metricsWorkersUpDown.Add(int64(len(s.workers)))

	return s, nil
}

// Detach is the public entry point for the outermost caller: a goroutine
// that is not itself running inside a task. It resolves a random worker's
// context and delegates to DetachTask there (SPEC_FULL.md §9 explains why
// the "thread-local if the caller is itself a worker" branch is
// unreachable from outside a task in this port).
func (s *Scheduler) Detach(fn func(*Context)) *Task {
	w := s.randomWorker()
	return w.ctx.DetachTask(fn)
}

func (s *Scheduler) randomWorker() *Worker {
	s.rngMu.Lock()
	i := s.rng.Intn(len(s.workers))
	s.rngMu.Unlock()
	return s.workers[i]
}

// Shutdown stops every worker and waits for its event loop to return. Any
// tasks left in a worker's queue when Shutdown is called are dropped,
// never executed.
func (s *Scheduler) Shutdown() {
	for _, w := range s.workers {
		w.stop()
	}
	for _, w := range s.workers {
		w.wait()
	}
}

// onTaskEnqueued is called by a worker whenever it pushes a task onto its
// own queue. If a peer is currently starving, one is popped off the
// starving set (removed before being fed, resolving SPEC_FULL.md §9's
// starving-set race) and handed a task stolen from sender.
func (s *Scheduler) onTaskEnqueued(sender *Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.starving) == 0 {
		return
	}
	var starver *Worker
	for w := range s.starving {
		starver = w
		break
	}
	delete(s.starving, starver)

	stolen := sender.steal()
	if stolen == nil {
		s.metricStealsFail.Add(1)
		return
	}
	s.metricStealsSucceed.Add(1)
	starver.enqueueForeign(stolen)
}

// onWorkerStarving is called by a worker whose queue was empty at the last
// fetch. It scans every other worker's queue FIFO-first looking for
// something to steal; if nothing is found, sender is added to the starving
// set to be backfilled later by onTaskEnqueued.
func (s *Scheduler) onWorkerStarving(sender *Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metricStarvingEvents.Add(1)

	for _, w := range s.workers {
		if w == sender {
			continue
		}
		if stolen := w.steal(); stolen != nil {
			s.metricStealsSucceed.Add(1)
			sender.enqueueForeign(stolen)
			return
		}
	}
	s.metricStealsFail.Add(1)
	s.starving[sender] = struct{}{}
}

// onWorkerReady is called exactly once per worker, when it transitions from
// NEW to READY. It decrements the start-up latch.
func (s *Scheduler) onWorkerReady(sender *Worker) {
	s.startLatch.Signal(false)
}
