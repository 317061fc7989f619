package taskgraph

import (
	"github.com/sirupsen/logrus"

	"github.com/corework/taskgraph/affinity"
	"github.com/corework/taskgraph/metrics"
)

// Option configures a Scheduler at Initialize time.
type Option func(*config)

// WithAffinity restricts worker placement to the intersection of mask and
// the process's own affinity mask. Without this option, Initialize uses the
// full process mask.
func WithAffinity(mask affinity.Mask) Option {
	return func(c *config) {
		c.affinityMask = mask
		c.affinityMaskSet = true
	}
}

// WithQueueCapacity sets the fixed capacity of every worker's task queue.
// Default: 1024. Panics at Initialize time if n <= 0.
func WithQueueCapacity(n int) Option {
	return func(c *config) { c.queueCapacity = n }
}

// WithMetrics sets the metrics.Provider used to record scheduler counters
// and histograms. Default: metrics.NewNoopProvider().
func WithMetrics(p metrics.Provider) Option {
	return func(c *config) {
		if p == nil {
			panic("taskgraph: nil metrics provider")
		}
		c.metricsProvider = p
	}
}

// WithLogger sets the *logrus.Logger component loggers derive from.
// Default: the package-level base logger.
func WithLogger(l *logrus.Logger) Option {
	return func(c *config) { c.logger = l }
}

func (c *config) validate() error {
	if c.queueCapacity <= 0 {
		panic("taskgraph: queue capacity must be > 0")
	}
	return nil
}
