package batch

import (
	"errors"

	"github.com/abevier/outcome/closewaiter"
)

var (
	// ErrBatchResultMismatch is the cause of the Failure every task in a
	// batch receives when the run function returned a different number of
	// results than it was given tasks.
	ErrBatchResultMismatch = errors.New("batch run function returned the wrong number of results")

	// ErrClosed is returned by Submit and SubmitF after Close.
	ErrClosed = closewaiter.ErrClosed
)
