package processor

import (
	"context"
	"time"

	"github.com/MasterOfBinary/framebatch/batch"
)

// Nil returns a batch function that hands the items back unchanged after
// blocking for perItem times the batch size. It stands in for real work of
// known cost. If ctx is canceled while waiting, it reports ctx.Err().
func Nil[T any](perItem time.Duration) batch.BatchFunc[T, T] {
	return func(ctx context.Context, items []T, done func([]T, error)) {
		d := perItem * time.Duration(len(items))
		if d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				done(nil, ctx.Err())
				return
			case <-timer.C:
			}
		}
		done(items, nil)
	}
}
