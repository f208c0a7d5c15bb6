// Package processor contains decorators and stand-ins for batch.BatchFunc
// values, including:
//
// - Logging: logs the start, duration and outcome of every batch
// - Stats: reports batches to a batch.StatsCollector shared by several Schedulers
// - Tracing: wraps every batch in an OpenTelemetry span
// - Nil: passes items through after a fixed cost per item, for simulations
// - Error: fails the batch containing a chosen item, for testing failure paths
//
// Decorators keep the continuation contract of the function they wrap: done
// is called exactly once, on whatever goroutine the wrapped function used.
//
// Basic usage:
//
//	fn := processor.WrapWithLogging(batch.Sequential(resize), logger, "resize")
//	fn = processor.WrapWithTracing(fn, tracer, "resize")
//	batch.MapBatch(s, images, fn, cb)
package processor
