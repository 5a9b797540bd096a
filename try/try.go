// Package try is the sanctioned crossing from Go's native failure
// conventions into the Result algebra.  Code behind this boundary treats
// failure as a first-class return value; code in front of it returns
// (value, error) pairs and may panic.  Catch folds both into a
// Result[T, *apperrors.AppError], which is the only place that fold is
// permitted to happen.
//
// The inverse escape back out of the algebra is MustGet on Result and Option.
package try

import (
	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/asyncresults"
	"github.com/abevier/outcome/results"
)

// Catch runs fn and converts its outcome into a Result.  A returned error is
// coerced with apperrors.FromError and a panic is recovered with
// apperrors.FromPanic, so kind information carried by either is preserved and
// anything else is classified INTERNAL.  Catch never re-raises.
func Catch[T any](fn func() (T, error)) (r results.Result[T, *apperrors.AppError]) {
	defer func() {
		if v := recover(); v != nil {
			r = results.Failure[T](apperrors.FromPanic(v))
		}
	}()

	value, err := fn()
	if err != nil {
		return results.Failure[T](apperrors.FromError(err))
	}
	return results.Success[T, *apperrors.AppError](value)
}

// CatchAsync runs fn on its own goroutine and converts its outcome into an
// AsyncResult, with the same folding rules as Catch.
func CatchAsync[T any](fn func() (T, error)) *asyncresults.AsyncResult[T, *apperrors.AppError] {
	return asyncresults.Run(apperrors.FromError, func() results.Result[T, *apperrors.AppError] {
		return Catch(fn)
	})
}
