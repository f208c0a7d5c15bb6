package processor

import (
	"context"
	"time"

	"github.com/MasterOfBinary/framebatch/batch"
)

// Stats wraps a batch function and reports every batch it handles to a
// StatsCollector. A Scheduler already records its own batches; Stats is
// for tracking one function that is used by several Schedulers.
type Stats[In, Out any] struct {
	// Func is the wrapped function that does the actual work.
	Func batch.BatchFunc[In, Out]

	// Stats is used to collect processing metrics.
	// If nil, no statistics are collected.
	Stats batch.StatsCollector
}

// Process has the signature of batch.BatchFunc. It delegates to Func and
// records the batch. Failed batches are started but never completed.
func (p *Stats[In, Out]) Process(ctx context.Context, items []In, done func([]Out, error)) {
	if p.Func == nil {
		done(nil, batch.ErrNilFunc)
		return
	}

	if p.Stats == nil {
		p.Func(ctx, items, done)
		return
	}

	startTime := time.Now()
	p.Stats.RecordBatchStart(len(items))

	p.Func(ctx, items, func(results []Out, err error) {
		if err == nil {
			p.Stats.RecordBatchComplete(len(results), time.Since(startTime))
		}
		done(results, err)
	})
}

// WrapWithStats wraps fn with statistics collection.
// This is a convenience function for creating a Stats decorator.
//
// Example:
//
//	stats := batch.NewBasicStatsCollector()
//	wrapped := processor.WrapWithStats(fn, stats)
//
//	// Later, get statistics
//	currentStats := stats.GetStats()
func WrapWithStats[In, Out any](fn batch.BatchFunc[In, Out], stats batch.StatsCollector) batch.BatchFunc[In, Out] {
	p := &Stats[In, Out]{
		Func:  fn,
		Stats: stats,
	}
	return p.Process
}
