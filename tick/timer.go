package tick

import "time"

// Timer runs every callback on its own time.AfterFunc timer. Callbacks from
// different Next calls may run concurrently; a single Run of a batch.Scheduler never has
// more than one outstanding, so its batches still run one at a time.
type Timer struct {
	interval time.Duration
}

// NewTimer creates a Timer that delays each callback by interval.
func NewTimer(interval time.Duration) *Timer {
	if interval < 0 {
		interval = 0
	}
	return &Timer{interval: interval}
}

// Next implements batch.Ticker.
func (t *Timer) Next(fn func()) {
	time.AfterFunc(t.interval, fn)
}
