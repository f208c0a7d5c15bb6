package batch

import (
	"context"
	"errors"
	"fmt"
)

// MapAndWait starts a Run with MapBatch and blocks until it ends. If ctx is
// canceled first, the Run is aborted and the returned error wraps both
// ErrAborted and ctx.Err().
//
// The Ticker must be driven by another goroutine, for example a tick.Loop
// whose Run method is already executing; otherwise MapAndWait only returns
// when ctx is canceled.
//
//	go loop.Run(ctx)
//	out, meta, err := batch.MapAndWait(ctx, s, items, batch.Sequential(fn))
func MapAndWait[In, Out any](ctx context.Context, s *Scheduler, items []In, fn BatchFunc[In, Out]) ([]Out, Meta, error) {
	var outcome Outcome[Out]
	h := MapBatch(s, items, fn, func(o Outcome[Out]) {
		outcome = o
	})

	select {
	case <-h.Done():
	case <-ctx.Done():
		// The Run may finish on its own between the two cases; Abort then
		// reports ErrAlreadyCompleted and the real outcome is kept.
		_ = h.Abort()
		<-h.Done()
	}

	if errors.Is(outcome.Err, ErrAborted) && ctx.Err() != nil {
		return nil, outcome.Meta, fmt.Errorf("%w: %w", ErrAborted, ctx.Err())
	}
	return outcome.Results, outcome.Meta, outcome.Err
}
