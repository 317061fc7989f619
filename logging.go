package taskgraph

import "github.com/sirupsen/logrus"

// componentField names the field added to every component logger, following
// the component-logger convention in bgp59-victoriametrics-importer's logger.go.
const componentField = "component"

// baseLogger is the default logger used when no Option overrides it. It is
// package-level so that multiple Schedulers in the same process share one
// output/formatter by default, same as the teacher repo's RootLogger;
// Option WithLogger lets a caller scope logging to its own *logrus.Logger
// instead, e.g. for tests.
var baseLogger = logrus.New()

func componentLogger(base *logrus.Logger, name string) *logrus.Entry {
	if base == nil {
		base = baseLogger
	}
	return logrus.NewEntry(base).WithField(componentField, name)
}
