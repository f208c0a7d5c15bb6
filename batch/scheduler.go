package batch

import (
	"sync"
	"time"

	"github.com/MasterOfBinary/framebatch/tick"
)

// Ticker schedules work on the host's frame clock. Next must run fn once, at
// the next opportunity, and must not run it before Next returns. The tick
// package provides frame-loop, timer and manually stepped implementations.
type Ticker interface {
	Next(fn func())
}

// Scheduler spreads the items of a Run over successive ticks so that no tick
// spends more than the target interval inside the batch function.
//
// To create a new Scheduler, call New. A Scheduler can start any number of
// Runs, including concurrent ones; each Run owns its own state.
//
//	s := batch.New(loop, batch.NewConstantConfig(&batch.ConfigValues{TargetFPS: 60}))
//	h := batch.Map(s, items, batch.Sync(transform), func(o batch.Outcome[string]) {
//		if o.Err != nil {
//			log.Print(o.Err)
//			return
//		}
//		render(o.Results)
//	})
//
// The With methods must be called before the first Run starts.
type Scheduler struct {
	ticker   Ticker
	config   Config
	logger   Logger
	stats    StatsCollector
	clock    func() time.Time
	progress ProgressFunc

	mu      sync.Mutex
	started bool
}

// New creates a new Scheduler that schedules batches on ticker using the
// provided config. If ticker is nil, a tick.Timer firing every
// DefaultFrameInterval is used. If config is nil, a default configuration
// is used.
func New(ticker Ticker, config Config) *Scheduler {
	if ticker == nil {
		ticker = tick.NewTimer(DefaultFrameInterval)
	}
	if config == nil {
		config = NewConstantConfig(nil)
	}
	return &Scheduler{
		ticker: ticker,
		config: config,
	}
}

// WithLogger sets a custom logger for the Scheduler.
// If not set, no logging occurs (uses NoOpLogger internally).
//
// Panics if called after a Run has started.
func (s *Scheduler) WithLogger(logger Logger) *Scheduler {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		panic("batch: WithLogger cannot be called after a Run has started")
	}

	s.logger = logger
	return s
}

// WithStats sets a custom stats collector for the Scheduler.
// If not set, no statistics are collected (uses NoOpStatsCollector internally).
//
// Panics if called after a Run has started.
func (s *Scheduler) WithStats(stats StatsCollector) *Scheduler {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		panic("batch: WithStats cannot be called after a Run has started")
	}

	s.stats = stats
	return s
}

// WithClock replaces time.Now as the source of batch timings. It should be
// monotonic; tick.Manual.Now provides a virtual clock for tests.
//
// Panics if called after a Run has started.
func (s *Scheduler) WithClock(clock func() time.Time) *Scheduler {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		panic("batch: WithClock cannot be called after a Run has started")
	}

	s.clock = clock
	return s
}

// WithProgress registers fn to be called after every applied batch.
//
// Panics if called after a Run has started.
func (s *Scheduler) WithProgress(fn ProgressFunc) *Scheduler {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		panic("batch: WithProgress cannot be called after a Run has started")
	}

	s.progress = fn
	return s
}

// Stats returns the stats collector in use.
func (s *Scheduler) Stats() StatsCollector {
	s.start()
	return s.stats
}

// start freezes the Scheduler's settings and fills in defaults.
func (s *Scheduler) start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	if s.logger == nil {
		s.logger = &NoOpLogger{}
	}
	if s.stats == nil {
		s.stats = &NoOpStatsCollector{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	s.started = true
}
