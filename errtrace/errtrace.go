// Package errtrace records AppErrors on OpenTelemetry spans.  The error kind
// travels as a span attribute so traces can be filtered by failure category,
// and the span status reflects the outcome of the Result it closed over.
package errtrace

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/results"
)

// Record marks span as failed with e.  The error event carries the full
// cause chain text and an error.code attribute holding the kind.  A nil
// error records nothing.
func Record(span trace.Span, e *apperrors.AppError) {
	if e == nil {
		return
	}

	span.RecordError(e, trace.WithAttributes(
		attribute.String("error.code", string(e.Kind())),
	))
	span.SetStatus(codes.Error, e.Message())
}

// End closes span according to r: a success sets an OK status, a failure is
// recorded with Record.  The span is ended either way and r passes through
// unchanged, so End can terminate a Result pipeline.
func End[T any](span trace.Span, r results.Result[T, *apperrors.AppError]) results.Result[T, *apperrors.AppError] {
	r.Tap(func(T) {
		span.SetStatus(codes.Ok, "")
	}).TapError(func(e *apperrors.AppError) {
		Record(span, e)
	})

	span.End()
	return r
}
