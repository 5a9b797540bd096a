// Package errlog renders AppErrors as structured zap fields.  The flattened
// error form is the hand-off contract: code, message, context and the cause
// chain each become their own field, so log pipelines can index and filter on
// them without parsing message text.
package errlog

import (
	"go.uber.org/zap"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/results"
)

// Fields renders e in its flattened form as zap fields.  A nil error yields
// no fields.
func Fields(e *apperrors.AppError) []zap.Field {
	if e == nil {
		return nil
	}

	flat := e.Flat()
	return []zap.Field{
		zap.String("error_code", string(flat.Code)),
		zap.String("error_message", flat.Message),
		zap.Any("error_context", flat.Context),
		zap.Strings("cause_chain", flat.CauseChain),
	}
}

// Failure logs e at error level with its structured fields.
func Failure(logger *zap.Logger, msg string, e *apperrors.AppError) {
	logger.Error(msg, Fields(e)...)
}

// TapFailure logs the failure carried by r, if any, and returns r unchanged.
// Use it to record a failure mid-pipeline without unwrapping the Result.
func TapFailure[T any](logger *zap.Logger, msg string, r results.Result[T, *apperrors.AppError]) results.Result[T, *apperrors.AppError] {
	return r.TapError(func(e *apperrors.AppError) {
		Failure(logger, msg, e)
	})
}
