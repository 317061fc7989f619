package taskgraph

import "github.com/corework/taskgraph/metrics"

// defaultConfig centralizes default values for config, applied by
// Initialize as the options builder's base, matching
// ygrebnov-workers/defaults.go's role for its own Config.
func defaultConfig() config {
	return config{
		queueCapacity:   defaultQueueCapacity,
		metricsProvider: metrics.NewNoopProvider(),
		logger:          nil, // resolved to baseLogger lazily
	}
}
