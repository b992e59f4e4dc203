package entidx

import "log/slog"

type options struct {
	logger  *Logger
	metrics MetricsCollector
}

// Option configures Registry behavior.
type Option func(*options)

// WithLogger configures structured logging for index operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// lookups and refreshes. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &entidx.BasicMetricsCollector{}
//	reg := entidx.NewRegistry(entidx.WithMetricsCollector(metrics))
//	// ... use indexes ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
