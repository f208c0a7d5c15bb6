package batch

import (
	"sync"
	"sync/atomic"
	"time"
)

// RunResult is how a Run ended.
type RunResult int

const (
	// RunSucceeded means every item was processed.
	RunSucceeded RunResult = iota
	// RunFailed means the batch function reported an error.
	RunFailed
	// RunAborted means Handle.Abort was called.
	RunAborted
)

// String returns the lower-case name of the result, suitable as a metric label.
func (r RunResult) String() string {
	switch r {
	case RunSucceeded:
		return "succeeded"
	case RunFailed:
		return "failed"
	case RunAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// StatsCollector defines the interface for collecting metrics while Runs
// execute. Implementations can store metrics in memory or export them to a
// monitoring system. The StatsCollector is optional - if not provided, no
// statistics are collected.
//
// A single collector may be shared by concurrent Runs, so implementations
// must be safe for concurrent use.
type StatsCollector interface {
	// RecordRunStart is called when a Run is created with its item count.
	RecordRunStart(items int)

	// RecordBatchStart is called right before the batch function is invoked.
	RecordBatchStart(batchSize int)

	// RecordBatchComplete is called when a batch's results were applied.
	// duration is the wall-clock time the batch function took.
	RecordBatchComplete(batchSize int, duration time.Duration)

	// RecordEstimate is called with the cost estimate after each batch, in
	// milliseconds per item.
	RecordEstimate(intervalPerItem float64)

	// RecordRunComplete is called once per Run when it ends.
	RecordRunComplete(result RunResult)

	// GetStats returns a snapshot of the current statistics.
	GetStats() Stats
}

// Stats holds aggregated statistics about scheduled Runs.
type Stats struct {
	// RunsStarted is the total number of Runs created.
	RunsStarted uint64

	// RunsSucceeded, RunsFailed and RunsAborted count finished Runs by result.
	RunsSucceeded uint64
	RunsFailed    uint64
	RunsAborted   uint64

	// BatchesStarted is the total number of batch function invocations.
	BatchesStarted uint64

	// BatchesCompleted is the total number of batches whose results were applied.
	BatchesCompleted uint64

	// ItemsProcessed is the total number of items in completed batches.
	ItemsProcessed uint64

	// TotalProcessingTime is the cumulative time spent in completed batches.
	TotalProcessingTime time.Duration

	// MinBatchTime is the minimum time taken to process a batch.
	MinBatchTime time.Duration

	// MaxBatchTime is the maximum time taken to process a batch.
	MaxBatchTime time.Duration

	// MinBatchSize is the smallest batch size processed.
	MinBatchSize int

	// MaxBatchSize is the largest batch size processed.
	MaxBatchSize int

	// IntervalPerItem is the most recently recorded cost estimate in
	// milliseconds per item.
	IntervalPerItem float64

	// StartTime is when statistics collection began.
	StartTime time.Time

	// LastUpdateTime is when statistics were last updated.
	LastUpdateTime time.Time
}

// NoOpStatsCollector is a stats collector that discards all metrics.
// This is the default stats collector when none is specified.
type NoOpStatsCollector struct{}

// RecordRunStart implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordRunStart(items int) {}

// RecordBatchStart implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordBatchStart(batchSize int) {}

// RecordBatchComplete implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordBatchComplete(batchSize int, duration time.Duration) {}

// RecordEstimate implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordEstimate(intervalPerItem float64) {}

// RecordRunComplete implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordRunComplete(result RunResult) {}

// GetStats implements the StatsCollector interface.
func (n *NoOpStatsCollector) GetStats() Stats {
	return Stats{}
}

// BasicStatsCollector is a simple in-memory implementation of StatsCollector.
// All operations are thread-safe.
type BasicStatsCollector struct {
	mu    sync.RWMutex
	stats Stats

	runsStarted      atomic.Uint64
	runsSucceeded    atomic.Uint64
	runsFailed       atomic.Uint64
	runsAborted      atomic.Uint64
	batchesStarted   atomic.Uint64
	batchesCompleted atomic.Uint64
	itemsProcessed   atomic.Uint64
}

// NewBasicStatsCollector creates a new BasicStatsCollector.
func NewBasicStatsCollector() *BasicStatsCollector {
	now := time.Now()
	return &BasicStatsCollector{
		stats: Stats{
			StartTime:      now,
			LastUpdateTime: now,
			MinBatchTime:   time.Duration(1<<63 - 1),
		},
	}
}

// RecordRunStart implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordRunStart(items int) {
	b.runsStarted.Add(1)
	b.touch()
}

// RecordBatchStart implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatchStart(batchSize int) {
	b.batchesStarted.Add(1)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()

	if batchSize < b.stats.MinBatchSize || b.stats.MinBatchSize == 0 {
		b.stats.MinBatchSize = batchSize
	}
	if batchSize > b.stats.MaxBatchSize {
		b.stats.MaxBatchSize = batchSize
	}
}

// RecordBatchComplete implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatchComplete(batchSize int, duration time.Duration) {
	b.batchesCompleted.Add(1)
	b.itemsProcessed.Add(uint64(batchSize))

	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	b.stats.TotalProcessingTime += duration

	if duration < b.stats.MinBatchTime {
		b.stats.MinBatchTime = duration
	}
	if duration > b.stats.MaxBatchTime {
		b.stats.MaxBatchTime = duration
	}
}

// RecordEstimate implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordEstimate(intervalPerItem float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	b.stats.IntervalPerItem = intervalPerItem
}

// RecordRunComplete implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordRunComplete(result RunResult) {
	switch result {
	case RunSucceeded:
		b.runsSucceeded.Add(1)
	case RunFailed:
		b.runsFailed.Add(1)
	case RunAborted:
		b.runsAborted.Add(1)
	}
	b.touch()
}

func (b *BasicStatsCollector) touch() {
	b.mu.Lock()
	b.stats.LastUpdateTime = time.Now()
	b.mu.Unlock()
}

// GetStats implements the StatsCollector interface.
// It returns a snapshot of the current statistics.
func (b *BasicStatsCollector) GetStats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := b.stats
	stats.RunsStarted = b.runsStarted.Load()
	stats.RunsSucceeded = b.runsSucceeded.Load()
	stats.RunsFailed = b.runsFailed.Load()
	stats.RunsAborted = b.runsAborted.Load()
	stats.BatchesStarted = b.batchesStarted.Load()
	stats.BatchesCompleted = b.batchesCompleted.Load()
	stats.ItemsProcessed = b.itemsProcessed.Load()

	if stats.BatchesCompleted == 0 {
		stats.MinBatchTime = 0
	}

	return stats
}

// AverageBatchTime returns the average time taken to process a batch.
// Returns 0 if no batches have been completed.
func (s *Stats) AverageBatchTime() time.Duration {
	if s.BatchesCompleted == 0 {
		return 0
	}
	return s.TotalProcessingTime / time.Duration(s.BatchesCompleted)
}

// AverageBatchSize returns the average size of processed batches.
// Returns 0 if no batches have been completed.
func (s *Stats) AverageBatchSize() float64 {
	if s.BatchesCompleted == 0 {
		return 0
	}
	return float64(s.ItemsProcessed) / float64(s.BatchesCompleted)
}

// FailureRate returns the percentage of finished Runs that failed.
// Aborted Runs are not counted as failures. Returns 0 if no Run finished.
func (s *Stats) FailureRate() float64 {
	total := s.RunsSucceeded + s.RunsFailed + s.RunsAborted
	if total == 0 {
		return 0
	}
	return float64(s.RunsFailed) / float64(total) * 100
}

// Duration returns the total duration since statistics collection started.
func (s *Stats) Duration() time.Duration {
	return s.LastUpdateTime.Sub(s.StartTime)
}
