package taskgraph

import (
	"github.com/sirupsen/logrus"

	"github.com/corework/taskgraph/affinity"
	"github.com/corework/taskgraph/metrics"
)

// config holds Scheduler configuration assembled from Options.
type config struct {
	// affinityMask restricts worker placement to a subset of the process's
	// own affinity mask. The zero value means "use the full process mask".
	affinityMask    affinity.Mask
	affinityMaskSet bool

	// queueCapacity is the fixed capacity of every worker's task queue.
	// Default: 1024.
	queueCapacity int

	// metricsProvider records scheduler counters and histograms. Default:
	// metrics.NewNoopProvider().
	metricsProvider metrics.Provider

	// logger is the base *logrus.Logger component loggers are derived from.
	// Default: the package-level baseLogger.
	logger *logrus.Logger
}
