package processor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/framebatch/batch"
	"github.com/MasterOfBinary/framebatch/processor"
)

func TestStats_RecordsBatches(t *testing.T) {
	stats := batch.NewBasicStatsCollector()
	fn := processor.WrapWithStats(double, stats)

	_, err := call(fn, []int{1, 2, 3})
	require.NoError(t, err)
	_, err = call(fn, []int{4})
	require.NoError(t, err)

	s := stats.GetStats()
	assert.Equal(t, uint64(2), s.BatchesStarted)
	assert.Equal(t, uint64(2), s.BatchesCompleted)
	assert.Equal(t, uint64(4), s.ItemsProcessed)
	assert.Equal(t, 1, s.MinBatchSize)
	assert.Equal(t, 3, s.MaxBatchSize)
}

func TestStats_FailedBatchNotCompleted(t *testing.T) {
	stats := batch.NewBasicStatsCollector()
	boom := errors.New("boom")
	fn := processor.WrapWithStats(failing(boom), stats)

	_, err := call(fn, []int{1, 2})
	assert.ErrorIs(t, err, boom)

	s := stats.GetStats()
	assert.Equal(t, uint64(1), s.BatchesStarted)
	assert.Equal(t, uint64(0), s.BatchesCompleted)
}

func TestStats_SharedAcrossSchedulers(t *testing.T) {
	shared := batch.NewBasicStatsCollector()
	fn := processor.WrapWithStats(double, shared)

	for i := 0; i < 2; i++ {
		s := batch.New(nil, nil)
		out, _, err := batch.MapAndWait(t.Context(), s, []int{1, 2, 3}, fn)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 4, 6}, out)
	}

	assert.Equal(t, uint64(6), shared.GetStats().ItemsProcessed)
}

func TestStats_NilCollector(t *testing.T) {
	fn := processor.WrapWithStats(double, nil)

	out, err := call(fn, []int{5})
	require.NoError(t, err)
	assert.Equal(t, []int{10}, out)
}
