package batch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// BatchFunc processes a contiguous slice of items. It must call done exactly
// once, either with one result per item in the same order or with an error.
// done may be called before BatchFunc returns or later from any goroutine.
//
// ctx is canceled when the Run is aborted or finished. A BatchFunc that is
// still working at that point may stop early; whatever it reports is
// discarded.
//
type BatchFunc[In, Out any] func(ctx context.Context, items []In, done func([]Out, error))

// Callback receives the Outcome of a Run. It is called exactly once.
type Callback[Out any] func(Outcome[Out])

// Outcome is the final state of a Run. Err is nil on success, a *BatchError
// when the batch function failed, and ErrAborted when the Run was aborted.
// Results is only set on success.
type Outcome[Out any] struct {
	Results []Out
	Meta    Meta
	Err     error
}

// Meta describes the cost the scheduler learned during a Run. Passing
// IntervalPerItem as ConfigValues.InitialIntervalPerItem lets a later Run
// over similar items start with well-sized batches.
type Meta struct {
	// IntervalPerItem is the final cost estimate in milliseconds per item.
	IntervalPerItem float64

	// BatchSize is the number of items that fit in one tick at that cost,
	// never less than 1.
	BatchSize int

	// Batches is the number of batches that were applied.
	Batches int

	// Elapsed is the wall-clock time from the start of the Run to its end.
	Elapsed time.Duration
}

type runState int

const (
	stateRunning runState = iota
	stateCompleted
	stateAborted
)

// run is the state of a single scheduling invocation. All fields below mu
// are guarded by it; the batch function and every callback are invoked
// without holding it.
type run[In, Out any] struct {
	s      *Scheduler
	id     ulid.ULID
	items  []In
	fn     BatchFunc[In, Out]
	cb     Callback[Out]
	ctx    context.Context
	cancel context.CancelFunc
	began  time.Time
	done   chan struct{}

	mu        sync.Mutex
	state     runState
	err       error
	estimator *Estimator
	target    float64
	cursor    int
	results   []Out
	batches   int
}

// MapBatch starts a Run that feeds items to fn in batches sized to the
// Scheduler's target interval. The first batch runs before MapBatch
// returns; the rest run on later ticks. cb may be nil when the caller only
// needs the Handle.
func MapBatch[In, Out any](s *Scheduler, items []In, fn BatchFunc[In, Out], cb Callback[Out]) *Handle {
	s.start()

	ctx, cancel := context.WithCancel(context.Background())
	cfg := s.config.Get()
	r := &run[In, Out]{
		s:         s,
		id:        ulid.Make(),
		items:     items,
		fn:        fn,
		cb:        cb,
		ctx:       ctx,
		cancel:    cancel,
		began:     s.clock(),
		done:      make(chan struct{}),
		estimator: NewEstimator(cfg.initialEstimate()),
		target:    cfg.TargetInterval(),
		results:   make([]Out, 0, len(items)),
	}

	s.stats.RecordRunStart(len(items))
	s.logger.Info("Run %s: starting with %d item(s), target %.2fms per tick", r.id, len(items), r.target)

	h := &Handle{id: r.id, runner: r}

	switch {
	case len(items) == 0:
		r.mu.Lock()
		r.state = stateCompleted
		outcome := Outcome[Out]{Results: r.results, Meta: r.metaLocked()}
		r.mu.Unlock()
		r.deliver(RunSucceeded, outcome)
	case fn == nil:
		r.fail(0, 0, ErrNilFunc)
	default:
		r.tick()
	}

	return h
}

// Map is MapBatch for a function that handles one item at a time. Items of
// a batch are processed strictly one after another; see Sequential.
func Map[In, Out any](s *Scheduler, items []In, fn MapFunc[In, Out], cb Callback[Out]) *Handle {
	var bfn BatchFunc[In, Out]
	if fn != nil {
		bfn = Sequential(fn)
	}
	return MapBatch(s, items, bfn, cb)
}

// tick runs one batch. It is the callback handed to the Ticker.
func (r *run[In, Out]) tick() {
	r.mu.Lock()
	if r.state != stateRunning {
		r.mu.Unlock()
		return
	}

	// Config is re-read every tick so a DynamicConfig can retune the budget.
	r.target = r.s.config.Get().TargetInterval()
	start := r.cursor
	end, ok := nextBoundary(r.cursor, len(r.items), r.estimator.ItemsPerTick(r.target))
	if !ok {
		r.mu.Unlock()
		return
	}
	num := r.batches + 1
	r.mu.Unlock()

	r.s.logger.Debug("Run %s: batch %d processing items [%d:%d]", r.id, num, start, end)
	r.s.stats.RecordBatchStart(end - start)

	// An Abort may have landed while the lock was released.
	if r.ctx.Err() != nil {
		return
	}

	began := r.s.clock()
	r.fn(r.ctx, r.items[start:end:end], r.continuation(start, end, began))
}

// continuation returns the one-shot completion function for the batch
// [start, end).
func (r *run[In, Out]) continuation(start, end int, began time.Time) func([]Out, error) {
	var called atomic.Bool
	return func(results []Out, err error) {
		if !called.CompareAndSwap(false, true) {
			panic("batch: continuation called more than once")
		}
		r.apply(start, end, r.s.clock().Sub(began), results, err)
	}
}

// apply folds the outcome of one batch into the Run and decides what
// happens next.
func (r *run[In, Out]) apply(start, end int, elapsed time.Duration, results []Out, err error) {
	if err == nil && len(results) != end-start {
		err = fmt.Errorf("%w: got %d, want %d", ErrResultCount, len(results), end-start)
	}
	if err != nil {
		r.fail(start, end, err)
		return
	}

	r.mu.Lock()
	if r.state != stateRunning {
		r.mu.Unlock()
		r.s.logger.Debug("Run %s: discarding result of batch [%d:%d] after the run ended", r.id, start, end)
		return
	}

	r.estimator.Update(start, end, elapsed)
	r.results = append(r.results, results...)
	r.cursor = end
	r.batches++

	estimate := r.estimator.IntervalPerItem()
	progress := r.progressLocked()
	finished := r.cursor == len(r.items)
	var outcome Outcome[Out]
	if finished {
		r.state = stateCompleted
		outcome = Outcome[Out]{Results: r.results, Meta: r.metaLocked()}
	}
	r.mu.Unlock()

	r.s.stats.RecordBatchComplete(end-start, elapsed)
	r.s.stats.RecordEstimate(estimate)
	r.s.logger.Debug("Run %s: batch %d complete: %d item(s) in %v, estimate now %.3fms per item",
		r.id, progress.Batches, end-start, elapsed, estimate)

	if r.s.progress != nil {
		r.s.progress(progress)
	}

	if finished {
		r.deliver(RunSucceeded, outcome)
		return
	}

	r.s.ticker.Next(r.tick)
}

// fail ends the Run with a BatchError. Results gathered so far are dropped.
func (r *run[In, Out]) fail(start, end int, err error) {
	r.mu.Lock()
	if r.state != stateRunning {
		r.mu.Unlock()
		r.s.logger.Debug("Run %s: discarding error of batch [%d:%d] after the run ended: %v", r.id, start, end, err)
		return
	}
	bErr := &BatchError{Err: err, Start: start, End: end}
	r.state = stateCompleted
	r.err = bErr
	r.results = nil
	meta := r.metaLocked()
	r.mu.Unlock()

	r.s.logger.Error("Run %s: %v", r.id, bErr)
	r.deliver(RunFailed, Outcome[Out]{Meta: meta, Err: bErr})
}

// abort implements the Handle side of cancellation.
func (r *run[In, Out]) abort() error {
	r.mu.Lock()
	switch r.state {
	case stateAborted:
		r.mu.Unlock()
		return ErrAlreadyAborted
	case stateCompleted:
		r.mu.Unlock()
		return ErrAlreadyCompleted
	}
	r.state = stateAborted
	r.err = ErrAborted
	r.results = nil
	meta := r.metaLocked()
	processed := r.cursor
	r.mu.Unlock()

	r.s.logger.Info("Run %s: aborted after %d of %d item(s)", r.id, processed, len(r.items))
	r.deliver(RunAborted, Outcome[Out]{Meta: meta, Err: ErrAborted})
	return nil
}

// deliver hands the outcome to the caller. The state transition must already
// have happened, which makes deliver run at most once per Run.
func (r *run[In, Out]) deliver(result RunResult, outcome Outcome[Out]) {
	r.cancel()
	r.s.stats.RecordRunComplete(result)
	if result == RunSucceeded {
		r.s.logger.Info("Run %s: complete: %d item(s) in %d batch(es), %.3fms per item, batch size %d",
			r.id, len(outcome.Results), outcome.Meta.Batches, outcome.Meta.IntervalPerItem, outcome.Meta.BatchSize)
	}
	if r.cb != nil {
		r.cb(outcome)
	}
	close(r.done)
}

func (r *run[In, Out]) metaLocked() Meta {
	return Meta{
		IntervalPerItem: r.estimator.IntervalPerItem(),
		BatchSize:       r.estimator.OptimalBatchSize(r.target),
		Batches:         r.batches,
		Elapsed:         r.s.clock().Sub(r.began),
	}
}

func (r *run[In, Out]) progressLocked() Progress {
	return Progress{
		RunID:           r.id,
		Processed:       r.cursor,
		Total:           len(r.items),
		Batches:         r.batches,
		IntervalPerItem: r.estimator.IntervalPerItem(),
		Elapsed:         r.s.clock().Sub(r.began),
	}
}

func (r *run[In, Out]) wait() <-chan struct{} {
	return r.done
}

func (r *run[In, Out]) result() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
