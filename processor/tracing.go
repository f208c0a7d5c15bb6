package processor

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MasterOfBinary/framebatch/batch"
)

const tracerName = "github.com/MasterOfBinary/framebatch/processor"

// Tracing wraps a batch function and records one span per batch. The span
// covers the time until the function reports completion, not only the call,
// so asynchronous work is included.
type Tracing[In, Out any] struct {
	// Func is the wrapped function that does the actual work.
	Func batch.BatchFunc[In, Out]

	// Tracer starts the spans. If nil, the global tracer provider is used.
	Tracer trace.Tracer

	// Name is the span name. If empty, "framebatch.batch" is used.
	Name string
}

// Process has the signature of batch.BatchFunc. The span context is passed
// on to Func through ctx.
func (p *Tracing[In, Out]) Process(ctx context.Context, items []In, done func([]Out, error)) {
	if p.Func == nil {
		done(nil, batch.ErrNilFunc)
		return
	}

	tr := p.Tracer
	if tr == nil {
		tr = otel.Tracer(tracerName)
	}
	name := p.Name
	if name == "" {
		name = "framebatch.batch"
	}

	ctx, span := tr.Start(ctx, name,
		trace.WithAttributes(attribute.Int("batch.size", len(items))),
	)

	p.Func(ctx, items, func(results []Out, err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("batch.results", len(results)))
		}
		span.End()
		done(results, err)
	})
}

// WrapWithTracing wraps fn with OpenTelemetry tracing.
func WrapWithTracing[In, Out any](fn batch.BatchFunc[In, Out], tracer trace.Tracer, name string) batch.BatchFunc[In, Out] {
	p := &Tracing[In, Out]{
		Func:   fn,
		Tracer: tracer,
		Name:   name,
	}
	return p.Process
}
