// Package framebatch spreads work over the ticks of a frame clock so that a
// long job never makes a frame miss its budget.
//
// The scheduler lives in the batch package. Tick sources are in tick,
// function decorators for logging, statistics and tracing in processor, and
// a Prometheus exporter for scheduler statistics in promstats. The
// framebatch command in cmd/framebatch simulates a Run over synthetic work.
package framebatch
