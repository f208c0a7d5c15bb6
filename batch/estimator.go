package batch

import (
	"math"
	"time"
)

// Estimator keeps the running estimate of processing time per item, in
// milliseconds. The estimate is a lifetime mean weighted by items, not by
// batches: a slow batch late in a Run moves it less than the same batch
// early on. The zero value is not usable; create one with NewEstimator.
type Estimator struct {
	interval float64
}

// NewEstimator returns an Estimator seeded with initial. Values that are
// not positive are replaced by InitialIntervalPerItem.
func NewEstimator(initial float64) *Estimator {
	if initial <= 0 || math.IsNaN(initial) || math.IsInf(initial, 0) {
		initial = InitialIntervalPerItem
	}
	return &Estimator{interval: initial}
}

// IntervalPerItem returns the current estimate in milliseconds.
func (e *Estimator) IntervalPerItem() float64 {
	return e.interval
}

// Update folds the duration d of one batch into the estimate. before is the
// number of items processed prior to the batch and after the number
// processed including it.
func (e *Estimator) Update(before, after int, d time.Duration) {
	if after <= 0 || after <= before {
		return
	}
	ms := float64(d) / float64(time.Millisecond)
	e.interval = (e.interval*float64(before) + ms) / float64(after)
}

// ItemsPerTick returns how many items fit in target milliseconds at the
// current estimate. It is never less than 1.
func (e *Estimator) ItemsPerTick(target float64) int {
	if e.interval <= 0 {
		// Nothing measurable yet; the whole budget is available.
		return math.MaxInt32
	}
	n := math.Floor(target / e.interval)
	if n < 1 {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// OptimalBatchSize is the batch size a later Run could start with.
func (e *Estimator) OptimalBatchSize(target float64) int {
	return e.ItemsPerTick(target)
}

// nextBoundary returns the exclusive end of the batch starting at cursor, or
// false when every item has been processed.
func nextBoundary(cursor, total, itemsPossible int) (int, bool) {
	if cursor >= total {
		return 0, false
	}
	if itemsPossible < 1 {
		itemsPossible = 1
	}
	end := cursor + itemsPossible
	if end > total || end < cursor {
		end = total
	}
	return end, true
}
