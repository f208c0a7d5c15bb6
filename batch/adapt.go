package batch

import (
	"context"
	"sync"
	"sync/atomic"
)

// MapFunc processes a single item. Like BatchFunc it must call done exactly
// once, synchronously or later from any goroutine.
type MapFunc[In, Out any] func(ctx context.Context, item In, done func(Out, error))

// Sync adapts a plain function to a MapFunc that completes before returning.
func Sync[In, Out any](fn func(In) (Out, error)) MapFunc[In, Out] {
	return func(_ context.Context, item In, done func(Out, error)) {
		done(fn(item))
	}
}

// SyncBatch adapts a plain function over a slice to a BatchFunc that
// completes before returning.
func SyncBatch[In, Out any](fn func([]In) ([]Out, error)) BatchFunc[In, Out] {
	return func(_ context.Context, items []In, done func([]Out, error)) {
		done(fn(items))
	}
}

// Sequential turns a MapFunc into a BatchFunc. Each item is fully processed
// before the next one starts, results keep the input order, and the first
// error ends the batch. Once ctx is canceled no further item is started.
//
// Items that complete synchronously are handled in a loop rather than by
// recursion, so large batches of synchronous work do not grow the stack.
func Sequential[In, Out any](fn MapFunc[In, Out]) BatchFunc[In, Out] {
	return func(ctx context.Context, items []In, done func([]Out, error)) {
		results := make([]Out, 0, len(items))

		var next func(i int)
		next = func(i int) {
			for ; i < len(items); i++ {
				if err := ctx.Err(); err != nil {
					done(nil, err)
					return
				}

				var (
					mu       sync.Mutex
					returned bool
					inline   bool
					out      Out
					itemErr  error
					called   atomic.Bool
					position = i
				)

				fn(ctx, items[i], func(o Out, err error) {
					if !called.CompareAndSwap(false, true) {
						panic("batch: continuation called more than once")
					}

					mu.Lock()
					if !returned {
						// Still inside fn: let the loop pick the result up.
						inline = true
						out, itemErr = o, err
						mu.Unlock()
						return
					}
					mu.Unlock()

					if err != nil {
						done(nil, err)
						return
					}
					results = append(results, o)
					next(position + 1)
				})

				mu.Lock()
				returned = true
				completed := inline
				mu.Unlock()

				if !completed {
					return
				}
				if itemErr != nil {
					done(nil, itemErr)
					return
				}
				results = append(results, out)
			}
			done(results, nil)
		}

		next(0)
	}
}
