package batch_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MasterOfBinary/framebatch/batch"
)

func TestRunResult_String(t *testing.T) {
	assert.Equal(t, "succeeded", batch.RunSucceeded.String())
	assert.Equal(t, "failed", batch.RunFailed.String())
	assert.Equal(t, "aborted", batch.RunAborted.String())
	assert.Equal(t, "unknown", batch.RunResult(42).String())
}

func TestNoOpStatsCollector(t *testing.T) {
	stats := &batch.NoOpStatsCollector{}

	assert.NotPanics(t, func() {
		stats.RecordRunStart(10)
		stats.RecordBatchStart(10)
		stats.RecordBatchComplete(10, time.Second)
		stats.RecordEstimate(3.5)
		stats.RecordRunComplete(batch.RunFailed)
	})

	assert.Equal(t, batch.Stats{}, stats.GetStats())
}

func TestBasicStatsCollector(t *testing.T) {
	stats := batch.NewBasicStatsCollector()

	stats.RecordRunStart(15)

	stats.RecordBatchStart(5)
	stats.RecordBatchComplete(5, 100*time.Millisecond)

	stats.RecordBatchStart(3)
	stats.RecordBatchComplete(3, 50*time.Millisecond)

	stats.RecordBatchStart(7)
	stats.RecordBatchComplete(7, 150*time.Millisecond)
	stats.RecordEstimate(20)

	stats.RecordRunComplete(batch.RunSucceeded)
	stats.RecordRunComplete(batch.RunFailed)
	stats.RecordRunComplete(batch.RunAborted)
	stats.RecordRunComplete(batch.RunAborted)

	s := stats.GetStats()

	assert.Equal(t, uint64(1), s.RunsStarted)
	assert.Equal(t, uint64(1), s.RunsSucceeded)
	assert.Equal(t, uint64(1), s.RunsFailed)
	assert.Equal(t, uint64(2), s.RunsAborted)
	assert.Equal(t, uint64(3), s.BatchesStarted)
	assert.Equal(t, uint64(3), s.BatchesCompleted)
	assert.Equal(t, uint64(15), s.ItemsProcessed)

	assert.Equal(t, 50*time.Millisecond, s.MinBatchTime)
	assert.Equal(t, 150*time.Millisecond, s.MaxBatchTime)
	assert.Equal(t, 300*time.Millisecond, s.TotalProcessingTime)

	assert.Equal(t, 3, s.MinBatchSize)
	assert.Equal(t, 7, s.MaxBatchSize)
	assert.Equal(t, 20.0, s.IntervalPerItem)
}

func TestBasicStatsCollector_NoBatches(t *testing.T) {
	s := batch.NewBasicStatsCollector().GetStats()
	assert.Equal(t, time.Duration(0), s.MinBatchTime)
}

func TestBasicStatsCollector_Concurrent(t *testing.T) {
	stats := batch.NewBasicStatsCollector()

	var wg sync.WaitGroup
	const goroutines = 10
	const operations = 100

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operations; j++ {
				stats.RecordBatchStart(id + j + 1)
				stats.RecordBatchComplete(1, time.Duration(j)*time.Millisecond)
				stats.RecordEstimate(float64(j))
				if j%10 == 0 {
					stats.RecordRunComplete(batch.RunSucceeded)
				}
			}
		}(i)
	}

	wg.Wait()

	s := stats.GetStats()
	expected := uint64(goroutines * operations)
	assert.Equal(t, expected, s.BatchesStarted)
	assert.Equal(t, expected, s.BatchesCompleted)
	assert.Equal(t, expected, s.ItemsProcessed)
	assert.Equal(t, uint64(goroutines*operations/10), s.RunsSucceeded)
}

func TestStats_CalculatedMetrics(t *testing.T) {
	tests := []struct {
		name         string
		stats        batch.Stats
		avgBatchTime time.Duration
		avgBatchSize float64
		failureRate  float64
	}{
		{
			name: "normal stats",
			stats: batch.Stats{
				BatchesCompleted:    5,
				ItemsProcessed:      45,
				RunsSucceeded:       8,
				RunsFailed:          1,
				RunsAborted:         1,
				TotalProcessingTime: 500 * time.Millisecond,
			},
			avgBatchTime: 100 * time.Millisecond,
			avgBatchSize: 9.0,
			failureRate:  10.0,
		},
		{
			name: "nothing finished",
		},
		{
			name: "all failed",
			stats: batch.Stats{
				RunsFailed: 10,
			},
			failureRate: 100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.avgBatchTime, tt.stats.AverageBatchTime())
			assert.Equal(t, tt.avgBatchSize, tt.stats.AverageBatchSize())
			assert.Equal(t, tt.failureRate, tt.stats.FailureRate())
		})
	}
}

func TestStats_Duration(t *testing.T) {
	startTime := time.Now()
	stats := batch.Stats{
		StartTime:      startTime,
		LastUpdateTime: startTime.Add(5 * time.Second),
	}

	assert.Equal(t, 5*time.Second, stats.Duration())
}
