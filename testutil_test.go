package taskgraph

import (
	"math/rand"
	"time"
)

// newUnpinnedScheduler builds a Scheduler with n workers without touching
// real CPU affinity, so tests can exercise multi-worker behavior (stealing,
// starvation, rendezvous) regardless of how many cores the test host
// actually exposes.
func newUnpinnedScheduler(n int, opts ...Option) *Scheduler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		panic(err)
	}

	log := componentLogger(cfg.logger, "scheduler")
	provider := cfg.metricsProvider

	s := &Scheduler{
		starving:   make(map[*Worker]struct{}),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		startLatch: NewLatch(n),
		log:        log,
		metrics:    provider,

		metricTasksExecuted:  provider.Counter("test_tasks_executed_total"),
		metricStealsSucceed:  provider.Counter("test_steals_succeeded_total"),
		metricStealsFail:     provider.Counter("test_steals_failed_total"),
		metricStarvingEvents: provider.Counter("test_starving_events_total"),
		metricsWorkersUpDown: provider.UpDownCounter("test_workers_running"),
	}

	s.workers = make([]*Worker, n)
	for i := 0; i < n; i++ {
		wlog := componentLogger(cfg.logger, "worker")
		s.workers[i] = newWorker(i, s, cfg.queueCapacity, newPoolAllocator(), 0, false, wlog.WithField("worker", i))
	}

	for _, w := range s.workers {
		go w.run()
	}
	s.startLatch.Wait()

	return s
}
