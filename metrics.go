package bufarray

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordOpen is called after each array construction.
	// segments is the number of segments created, bytes the storage size,
	// err is nil if successful.
	RecordOpen(segments int, bytes int64, duration time.Duration, err error)

	// RecordClose is called once per array when it is closed.
	RecordClose(duration time.Duration, err error)

	// RecordLeak is called when an unclosed segment is reclaimed by the
	// garbage collector.
	RecordLeak()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(int, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordClose(time.Duration, error)            {}
func (NoopMetricsCollector) RecordLeak()                                 {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OpenCount      atomic.Int64
	OpenErrors     atomic.Int64
	OpenTotalNanos atomic.Int64
	SegmentCount   atomic.Int64
	BytesOpened    atomic.Int64
	CloseCount     atomic.Int64
	CloseErrors    atomic.Int64
	LeakCount      atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(segments int, bytes int64, duration time.Duration, err error) {
	b.OpenCount.Add(1)
	b.OpenTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.OpenErrors.Add(1)
		return
	}
	b.SegmentCount.Add(int64(segments))
	b.BytesOpened.Add(bytes)
}

// RecordClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClose(duration time.Duration, err error) {
	b.CloseCount.Add(1)
	if err != nil {
		b.CloseErrors.Add(1)
	}
}

// RecordLeak implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLeak() {
	b.LeakCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OpenCount:    b.OpenCount.Load(),
		OpenErrors:   b.OpenErrors.Load(),
		OpenAvgNanos: b.getAvgOpenNanos(),
		SegmentCount: b.SegmentCount.Load(),
		BytesOpened:  b.BytesOpened.Load(),
		CloseCount:   b.CloseCount.Load(),
		CloseErrors:  b.CloseErrors.Load(),
		LeakCount:    b.LeakCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgOpenNanos() int64 {
	count := b.OpenCount.Load()
	if count == 0 {
		return 0
	}
	return b.OpenTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	OpenCount    int64
	OpenErrors   int64
	OpenAvgNanos int64
	SegmentCount int64
	BytesOpened  int64
	CloseCount   int64
	CloseErrors  int64
	LeakCount    int64
}
