// Package httpboundary converts Results into HTTP responses.  It is an edge
// package: a handler builds its whole response as a Result and hands it to
// Respond, which performs the single match that turns the value into a status
// code and a JSON body.  Handlers never branch on success themselves.
package httpboundary

import (
	"encoding/json"
	"net/http"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/results"
)

// StatusOf maps an error kind to its HTTP response status.
//
//	NOT_FOUND                        404
//	VALIDATION, CONFLICT             400
//	UNAUTHORIZED                     401
//	FORBIDDEN                        403
//	EXTERNAL_SERVICE_ERROR, INTERNAL 500
//
// Unrecognized kinds report 500.
func StatusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.Validation, apperrors.Conflict:
		return http.StatusBadRequest
	case apperrors.Unauthorized:
		return http.StatusUnauthorized
	case apperrors.Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes r to w as JSON: a success becomes a 200 with the value as
// the body, a failure becomes the StatusOf status with the flattened AppError
// as the body.
func Respond[T any](w http.ResponseWriter, r results.Result[T, *apperrors.AppError]) {
	w.Header().Set("Content-Type", "application/json")

	_ = results.Match(r,
		func(v T) error {
			w.WriteHeader(http.StatusOK)
			return json.NewEncoder(w).Encode(v)
		},
		func(e *apperrors.AppError) error {
			w.WriteHeader(StatusOf(e.Kind()))
			return json.NewEncoder(w).Encode(e)
		},
	)
}
