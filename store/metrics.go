package store

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics from a store. Implement it
// to integrate with a monitoring system.
type MetricsCollector interface {
	// RecordIndex is called after each single-document write, successful or
	// not.
	RecordIndex(duration time.Duration, err error)

	// RecordBatch is called once per batch with the number of documents
	// attempted and the number that failed.
	RecordBatch(count, failed int, duration time.Duration)

	// RecordFetch is called after each value or source fetch.
	RecordFetch(duration time.Duration, err error)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIndex(time.Duration, error)    {}
func (NoopMetricsCollector) RecordBatch(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordFetch(time.Duration, error)    {}

// BasicMetricsCollector keeps simple in-memory counters. Useful for tests
// and debugging without an external monitoring system.
type BasicMetricsCollector struct {
	IndexCount      atomic.Int64
	IndexErrors     atomic.Int64
	IndexTotalNanos atomic.Int64
	BatchCount      atomic.Int64
	BatchDocs       atomic.Int64
	BatchFailed     atomic.Int64
	FetchCount      atomic.Int64
	FetchErrors     atomic.Int64
}

// RecordIndex implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndex(duration time.Duration, err error) {
	b.IndexCount.Add(1)
	b.IndexTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.IndexErrors.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(count, failed int, duration time.Duration) {
	b.BatchCount.Add(1)
	b.BatchDocs.Add(int64(count))
	b.BatchFailed.Add(int64(failed))
}

// RecordFetch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFetch(duration time.Duration, err error) {
	b.FetchCount.Add(1)
	if err != nil {
		b.FetchErrors.Add(1)
	}
}
