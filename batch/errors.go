package batch

import (
	"errors"
	"fmt"
)

var (
	// ErrAborted is delivered through the Callback when a Run is canceled
	// with Handle.Abort.
	ErrAborted = errors.New("aborted")

	// ErrAlreadyCompleted is returned by Handle.Abort when the Run already
	// finished, successfully or not.
	ErrAlreadyCompleted = errors.New("already completed")

	// ErrAlreadyAborted is returned by Handle.Abort when Abort was already
	// called for the Run.
	ErrAlreadyAborted = errors.New("already aborted")

	// ErrResultCount is wrapped in a BatchError when a batch function reports
	// a different number of results than items it was given.
	ErrResultCount = errors.New("result count does not match batch size")

	// ErrNilFunc is wrapped in a BatchError when a Run over a non-empty
	// item list is started without a function.
	ErrNilFunc = errors.New("batch function cannot be nil")
)

// BatchError is delivered when a batch function fails. Start and End are the
// bounds of the batch, End being exclusive.
//
type BatchError struct {
	Err   error
	Start int
	End   int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch [%d:%d] error: %v", e.Start, e.End, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
