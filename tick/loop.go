package tick

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is a frame loop. Callbacks passed to Next run on the goroutine that
// called Run, once per frame, in the order they were queued. This gives all
// Runs scheduled on the same Loop a single logical thread.
type Loop struct {
	interval time.Duration

	mu      sync.Mutex
	queue   []func()
	running bool

	frames atomic.Uint64
}

// NewLoop creates a Loop ticking fps times per second. A non-positive fps
// means 60.
func NewLoop(fps float64) *Loop {
	if fps <= 0 {
		fps = 60
	}
	return &Loop{
		interval: time.Duration(float64(time.Second) / fps),
	}
}

// Interval returns the time between frames.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Next queues fn for the next frame.
func (l *Loop) Next(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queue = append(l.queue, fn)
}

// Pending returns the number of callbacks waiting for a frame.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Frames returns the number of frames run so far.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

// Run executes frames until ctx is canceled and returns ctx.Err(). Callbacks
// still queued at that point stay queued and run once Run is called again.
//
// Panics if Run is already executing on another goroutine.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		panic("tick: concurrent calls to Loop.Run are not allowed")
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	t := time.NewTicker(l.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			l.frame()
		}
	}
}

// frame runs the callbacks queued before it started.
func (l *Loop) frame() {
	l.mu.Lock()
	queue := l.queue
	l.queue = nil
	l.mu.Unlock()

	l.frames.Add(1)
	for _, fn := range queue {
		fn()
	}
}
