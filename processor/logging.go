package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/MasterOfBinary/framebatch/batch"
)

// Logging wraps a batch function and logs when each batch starts and
// completes, along with any error it reports.
type Logging[In, Out any] struct {
	// Func is the wrapped function that does the actual work.
	Func batch.BatchFunc[In, Out]

	// Logger is used to log processing events.
	// If nil, no logging occurs.
	Logger batch.Logger

	// Name is an optional name used in log messages.
	// If empty, the type of Func is used.
	Name string
}

// Process has the signature of batch.BatchFunc. It delegates to Func and
// logs the operation.
func (p *Logging[In, Out]) Process(ctx context.Context, items []In, done func([]Out, error)) {
	if p.Func == nil {
		done(nil, batch.ErrNilFunc)
		return
	}

	if p.Logger == nil {
		p.Func(ctx, items, done)
		return
	}

	name := p.Name
	if name == "" {
		name = fmt.Sprintf("%T", p.Func)
	}

	startTime := time.Now()
	p.Logger.Debug("Function '%s' starting with %d items", name, len(items))

	p.Func(ctx, items, func(results []Out, err error) {
		duration := time.Since(startTime)
		if err != nil {
			p.Logger.Error("Function '%s' failed after %v: %v", name, duration, err)
		} else {
			p.Logger.Debug("Function '%s' completed in %v: %d results", name, duration, len(results))
		}
		done(results, err)
	})
}

// WrapWithLogging wraps fn with logging.
// This is a convenience function for creating a Logging decorator.
//
// Example:
//
//	logger := batch.NewZerologLogger(log.Logger)
//	wrapped := processor.WrapWithLogging(fn, logger, "resize")
func WrapWithLogging[In, Out any](fn batch.BatchFunc[In, Out], logger batch.Logger, name string) batch.BatchFunc[In, Out] {
	p := &Logging[In, Out]{
		Func:   fn,
		Logger: logger,
		Name:   name,
	}
	return p.Process
}
