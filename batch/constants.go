package batch

import "time"

// Default scheduling parameters.
const (
	// DefaultTargetFPS is the frame rate batches are sized for. It is set
	// above 30 so that scheduling overhead still leaves real throughput
	// around 30fps.
	DefaultTargetFPS = 40

	// InitialIntervalPerItem is the cost guess, in milliseconds per item,
	// used before the first batch has been measured. It is deliberately high
	// so the first batch stays small.
	InitialIntervalPerItem = 10.0

	// DefaultFrameInterval is the tick interval used when a Scheduler is
	// created without a Ticker.
	DefaultFrameInterval = time.Second / 60
)
