package taskqueue

import (
	"errors"

	"github.com/abevier/outcome/internal/submit"
)

var (
	ErrQueueFull = submit.ErrQueueFull
	ErrStopped   = errors.New("task queue has been stopped")
)
