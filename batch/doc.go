// Package batch spreads work over a list of items across successive ticks of
// a host frame clock, so that no tick spends more than the target interval
// (1000/TargetFPS milliseconds) in the caller's function.
//
// The main type is Scheduler, which can be created using New. A Run is
// started with Map, for a function that handles one item at a time, or with
// MapBatch, for a function that takes a whole slice. Both return a Handle
// that can abort the Run, and deliver the Outcome to a Callback exactly once.
//
// The Scheduler learns how long an item takes. It starts from a deliberately
// high guess of InitialIntervalPerItem milliseconds and, after every batch,
// replaces the estimate with the cumulative mean of everything measured so
// far. Each batch holds as many items as the estimate says will fit in the
// target interval, and never fewer than one:
//
//	batch size = max(1, floor(target / estimate))
//
// The first batch runs before Map returns. Every following batch runs on a
// later tick requested from the Ticker, after the previous batch reported
// completion. Batches of a Run never overlap and results keep input order.
//
// Functions report completion through a continuation, which may be called
// synchronously or later from any goroutine:
//
//	fn := func(ctx context.Context, items []Image, done func([]Thumb, error)) {
//		go func() {
//			done(resizeAll(ctx, items))
//		}()
//	}
//	h := batch.MapBatch(s, images, fn, func(o batch.Outcome[Thumb]) {
//		// o.Results, o.Meta, o.Err
//	})
//
// The first failing batch ends the Run with a *BatchError; results gathered
// before it are dropped. Handle.Abort ends the Run with ErrAborted.
//
// The configuration is reloaded before each batch. This allows dynamic
// Config implementations to retune the frame budget during a Run.
package batch
