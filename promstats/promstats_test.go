package promstats

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/framebatch/batch"
	"github.com/MasterOfBinary/framebatch/tick"
)

func TestCollector_Records(t *testing.T) {
	c := NewCollector("")

	c.RecordRunStart(5)
	c.RecordBatchStart(2)
	c.RecordBatchComplete(2, 10*time.Millisecond)
	c.RecordEstimate(5)
	c.RecordBatchStart(3)
	c.RecordBatchComplete(3, 15*time.Millisecond)
	c.RecordRunComplete(batch.RunSucceeded)
	c.RecordRunComplete(batch.RunAborted)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runsStarted))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.batchesStarted))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.itemsProcessed))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.estimate))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runsCompleted.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runsCompleted.WithLabelValues("aborted")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.runsCompleted.WithLabelValues("failed")))

	s := c.GetStats()
	assert.Equal(t, uint64(5), s.ItemsProcessed)
	assert.Equal(t, uint64(1), s.RunsSucceeded)
}

func TestCollector_Register(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c := NewCollector("test")
	require.NoError(t, reg.Register(c))

	c.RecordRunStart(1)
	c.RecordRunComplete(batch.RunFailed)

	expected := `
# HELP test_runs_completed_total Number of runs that ended, by result.
# TYPE test_runs_completed_total counter
test_runs_completed_total{result="failed"} 1
# HELP test_runs_started_total Number of runs started.
# TYPE test_runs_started_total counter
test_runs_started_total 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"test_runs_completed_total", "test_runs_started_total")
	assert.NoError(t, err)
}

func TestCollector_WithScheduler(t *testing.T) {
	c := NewCollector("fb")
	m := tick.NewManual()
	s := batch.New(m, nil).WithClock(m.Now).WithStats(c)

	fn := batch.SyncBatch(func(items []int) ([]int, error) {
		m.Advance(time.Duration(len(items)) * 5 * time.Millisecond)
		return items, nil
	})

	var outcome batch.Outcome[int]
	batch.MapBatch(s, []int{1, 2, 3, 4, 5, 6, 7, 8}, fn, func(o batch.Outcome[int]) {
		outcome = o
	})
	m.Drain(0)

	require.NoError(t, outcome.Err)
	assert.Equal(t, 8.0, testutil.ToFloat64(c.itemsProcessed))
	assert.Equal(t, float64(outcome.Meta.Batches), testutil.ToFloat64(c.batchesStarted))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.estimate))
	assert.Equal(t, 1, testutil.CollectAndCount(c.batchSize))
}
