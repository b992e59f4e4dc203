package entidx

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLookup is called after each lookup operation.
	// err is nil except for LookupSingle cardinality mismatches.
	RecordLookup(duration time.Duration, err error)

	// RecordRefresh is called after each refresh request, including
	// ones the tick gate turned into no-ops. forced reports whether the
	// gate was bypassed.
	RecordRefresh(duration time.Duration, forced bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLookup(time.Duration, error) {}
func (NoopMetricsCollector) RecordRefresh(time.Duration, bool) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LookupCount       atomic.Int64
	LookupErrors      atomic.Int64
	LookupTotalNanos  atomic.Int64
	RefreshCount      atomic.Int64
	ForcedRefreshes   atomic.Int64
	RefreshTotalNanos atomic.Int64
}

// RecordLookup records a lookup operation.
func (c *BasicMetricsCollector) RecordLookup(duration time.Duration, err error) {
	c.LookupCount.Add(1)
	c.LookupTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.LookupErrors.Add(1)
	}
}

// RecordRefresh records a refresh operation.
func (c *BasicMetricsCollector) RecordRefresh(duration time.Duration, forced bool) {
	c.RefreshCount.Add(1)
	c.RefreshTotalNanos.Add(duration.Nanoseconds())
	if forced {
		c.ForcedRefreshes.Add(1)
	}
}

// MetricsStats is a point-in-time snapshot of collected metrics.
type MetricsStats struct {
	LookupCount     int64
	LookupErrors    int64
	LookupAvgNanos  int64
	RefreshCount    int64
	ForcedRefreshes int64
	RefreshAvgNanos int64
}

// GetStats returns a snapshot of the collected metrics.
func (c *BasicMetricsCollector) GetStats() MetricsStats {
	stats := MetricsStats{
		LookupCount:     c.LookupCount.Load(),
		LookupErrors:    c.LookupErrors.Load(),
		RefreshCount:    c.RefreshCount.Load(),
		ForcedRefreshes: c.ForcedRefreshes.Load(),
	}
	if stats.LookupCount > 0 {
		stats.LookupAvgNanos = c.LookupTotalNanos.Load() / stats.LookupCount
	}
	if stats.RefreshCount > 0 {
		stats.RefreshAvgNanos = c.RefreshTotalNanos.Load() / stats.RefreshCount
	}
	return stats
}
