package batch

import (
	"github.com/oklog/ulid/v2"
)

type runner interface {
	abort() error
	wait() <-chan struct{}
	result() error
}

// Handle controls a single Run. It is safe for concurrent use.
type Handle struct {
	id     ulid.ULID
	runner runner
}

// ID returns the unique, time-ordered identifier of the Run. It appears in
// every log line the Run writes.
func (h *Handle) ID() ulid.ULID {
	return h.id
}

// Abort cancels the Run. The Callback receives ErrAborted before Abort
// returns, and no further batch is started. A batch that is already running
// is not interrupted, but the context it was given is canceled and its
// result is discarded.
//
// Abort returns ErrAlreadyCompleted if the Run already finished and
// ErrAlreadyAborted if it was already aborted. These are returned to the
// caller only; the Callback is not invoked again.
func (h *Handle) Abort() error {
	return h.runner.abort()
}

// Done returns a channel that is closed once the Callback has returned.
// Later batches only start when the Ticker fires, so Done stays open while
// the Ticker is stopped.
//
//	h := batch.Map(s, items, fn, nil)
//	select {
//	case <-h.Done():
//		fmt.Println("finished:", h.Err())
//	case <-time.After(10 * time.Second):
//		_ = h.Abort()
//	}
func (h *Handle) Done() <-chan struct{} {
	return h.runner.wait()
}

// Err returns nil while the Run is in progress or after it succeeded, the
// *BatchError after a failure, and ErrAborted after an abort.
func (h *Handle) Err() error {
	return h.runner.result()
}
