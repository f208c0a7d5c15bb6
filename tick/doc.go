// Package tick contains tick sources for batch.Scheduler. A tick source runs
// a callback once at the next opportunity, the way a display-refresh callback
// does in a rendering host:
//
// - Loop: a frame loop that runs queued callbacks on a single goroutine once per frame
// - Timer: runs each callback on its own timer after a fixed interval
// - Manual: queues callbacks until stepped, with a virtual clock, for tests and simulations
//
// Callbacks queued while a frame is running are deferred to the next frame,
// so a callback that schedules itself runs at most once per frame.
package tick
