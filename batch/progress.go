package batch

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// percentMultiplier converts a ratio to a percentage.
const percentMultiplier = 100

// ProgressFunc is called after every applied batch, outside of any lock. It
// runs on whatever goroutine completed the batch.
type ProgressFunc func(Progress)

// Progress is a snapshot of a Run taken after a batch was applied.
type Progress struct {
	// RunID identifies the Run, see Handle.ID.
	RunID ulid.ULID

	// Processed is the number of items with results so far.
	Processed int

	// Total is the number of items in the Run.
	Total int

	// Batches is the number of batches applied so far.
	Batches int

	// IntervalPerItem is the cost estimate after this batch, in milliseconds.
	IntervalPerItem float64

	// Elapsed is the time since the Run started.
	Elapsed time.Duration
}

// PercentComplete returns the completion percentage (0-100).
func (p Progress) PercentComplete() float64 {
	if p.Total == 0 {
		return percentMultiplier
	}
	return float64(p.Processed) / float64(p.Total) * percentMultiplier
}

// IsComplete returns true if all items have been processed.
func (p Progress) IsComplete() bool {
	return p.Processed >= p.Total
}

// EstimatedTimeRemaining extrapolates the time left from the current cost
// estimate. It ignores the idle time between ticks.
func (p Progress) EstimatedTimeRemaining() time.Duration {
	remaining := p.Total - p.Processed
	if remaining <= 0 {
		return 0
	}
	return time.Duration(float64(remaining) * p.IntervalPerItem * float64(time.Millisecond))
}
