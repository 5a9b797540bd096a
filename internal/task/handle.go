// Package task holds the submission plumbing shared by the executor
// packages.  A Handle pairs a submitted task with the context it was
// submitted under and the AsyncResult the executor resolves when the task
// concludes.
package task

import (
	"context"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/asyncresults"
)

type Handle[T any, R any] struct {
	Ctx   context.Context
	Task  T
	Async *asyncresults.AsyncResult[R, *apperrors.AppError]
}

func NewHandle[T any, R any](ctx context.Context, t T) Handle[T, R] {
	return Handle[T, R]{
		Ctx:   ctx,
		Task:  t,
		Async: asyncresults.New[R](apperrors.FromError),
	}
}
