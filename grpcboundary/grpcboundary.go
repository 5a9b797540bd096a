// Package grpcboundary converts Results into gRPC status errors.  Like
// httpboundary it is an edge package: a unary handler builds its response as
// a Result and performs the single match through Reply, which folds a failure
// into the status error the gRPC runtime expects.
package grpcboundary

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/results"
)

// CodeOf maps an error kind to its gRPC status code.
//
//	NOT_FOUND              NotFound
//	VALIDATION             InvalidArgument
//	UNAUTHORIZED           Unauthenticated
//	FORBIDDEN              PermissionDenied
//	CONFLICT               AlreadyExists
//	EXTERNAL_SERVICE_ERROR Unavailable
//	INTERNAL               Internal
//
// Unrecognized kinds report Internal.
func CodeOf(kind apperrors.Kind) codes.Code {
	switch kind {
	case apperrors.NotFound:
		return codes.NotFound
	case apperrors.Validation:
		return codes.InvalidArgument
	case apperrors.Unauthorized:
		return codes.Unauthenticated
	case apperrors.Forbidden:
		return codes.PermissionDenied
	case apperrors.Conflict:
		return codes.AlreadyExists
	case apperrors.ExternalService:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// StatusError converts e into a gRPC status error carrying the CodeOf code
// and the full cause chain text.  A nil error yields nil.
func StatusError(e *apperrors.AppError) error {
	if e == nil {
		return nil
	}
	return status.Error(CodeOf(e.Kind()), e.Error())
}

// Reply converts r into the pair a unary gRPC handler returns: the value and
// nil on success, the zero value and a status error on failure.
func Reply[T any](r results.Result[T, *apperrors.AppError]) (T, error) {
	var value T
	err := results.Match(r,
		func(v T) error {
			value = v
			return nil
		},
		func(e *apperrors.AppError) error {
			return StatusError(e)
		},
	)
	return value, err
}
