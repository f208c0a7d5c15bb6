package tick

import (
	"sync"
	"time"
)

// Manual is a tick source that only advances when told to. It also keeps a
// virtual clock, so batch timings can be made exact:
//
//	m := tick.NewManual()
//	s := batch.New(m, nil).WithClock(m.Now)
//	fn := batch.Sync(func(n int) (int, error) {
//		m.Advance(4 * time.Millisecond) // every item costs 4ms
//		return n * 10, nil
//	})
//	batch.Map(s, items, fn, cb)
//	m.Drain(0)
type Manual struct {
	mu     sync.Mutex
	queue  []func()
	now    time.Time
	frames int
}

// NewManual creates a Manual whose clock starts at the Unix epoch.
func NewManual() *Manual {
	return &Manual{now: time.Unix(0, 0)}
}

// Next implements batch.Ticker.
func (m *Manual) Next(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, fn)
}

// Step runs one frame: every callback queued before Step was called. It
// returns the number of callbacks run.
func (m *Manual) Step() int {
	m.mu.Lock()
	queue := m.queue
	m.queue = nil
	m.frames++
	m.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
	return len(queue)
}

// Drain steps until no callback is queued, or until limit frames have run when
// limit is positive. It returns the number of frames run.
func (m *Manual) Drain(limit int) int {
	n := 0
	for m.Pending() > 0 {
		if limit > 0 && n >= limit {
			break
		}
		m.Step()
		n++
	}
	return n
}

// Pending returns the number of queued callbacks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Frames returns the number of frames stepped so far.
func (m *Manual) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// Now returns the virtual time. It can be passed to batch.Scheduler.WithClock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the virtual clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
