package processor

import (
	"context"
	"sync/atomic"

	"github.com/MasterOfBinary/framebatch/batch"
)

// Error wraps a batch function and fails the batch that contains the item at
// position At, counting items across calls. Batches before it are passed to
// Func. A negative At never fails. Since positions are counted from the
// first call, an Error should serve a single Run.
type Error[In, Out any] struct {
	Func batch.BatchFunc[In, Out]
	Err  error
	At   int

	seen atomic.Int64
}

// Process has the signature of batch.BatchFunc.
func (p *Error[In, Out]) Process(ctx context.Context, items []In, done func([]Out, error)) {
	end := int(p.seen.Add(int64(len(items))))
	start := end - len(items)

	if p.At >= start && p.At < end {
		done(nil, p.Err)
		return
	}
	if p.Func == nil {
		done(nil, batch.ErrNilFunc)
		return
	}
	p.Func(ctx, items, done)
}

// FailAt wraps fn so that the batch containing the item at position at
// fails with err.
func FailAt[In, Out any](fn batch.BatchFunc[In, Out], at int, err error) batch.BatchFunc[In, Out] {
	p := &Error[In, Out]{
		Func: fn,
		Err:  err,
		At:   at,
	}
	return p.Process
}
