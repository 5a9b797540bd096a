package cliboundary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/results"
)

func TestExitCodeOf(t *testing.T) {
	require := require.New(t)

	kinds := []apperrors.Kind{
		apperrors.NotFound,
		apperrors.Validation,
		apperrors.Unauthorized,
		apperrors.Forbidden,
		apperrors.Conflict,
		apperrors.ExternalService,
		apperrors.Internal,
	}
	for _, kind := range kinds {
		require.Equal(1, ExitCodeOf(kind), "kind %s", kind)
	}
}

func TestRunSuccess(t *testing.T) {
	require := require.New(t)

	var out, errOut bytes.Buffer
	code := Run(results.Success[int, *apperrors.AppError](42), &out, &errOut)

	require.Equal(0, code)
	require.Equal("42\n", out.String())
	require.Empty(errOut.String())
}

func TestRunFailure(t *testing.T) {
	require := require.New(t)

	e := apperrors.New(apperrors.NotFound, "user not found").With("user_id", 3)

	var out, errOut bytes.Buffer
	code := Run(results.Failure[int](e), &out, &errOut)

	require.Equal(1, code)
	require.Empty(out.String())
	require.JSONEq(`{"code":"NOT_FOUND","message":"user not found","context":{"user_id":3},"causeChain":[]}`, errOut.String())
}

func TestRunFailureUnserializableContext(t *testing.T) {
	require := require.New(t)

	// A context value that violates the JSON-safe contract must not take the
	// command down with it.
	e := apperrors.New(apperrors.Internal, "bad context").With("fn", func() {})

	var out, errOut bytes.Buffer
	code := Run(results.Failure[int](e), &out, &errOut)

	require.Equal(1, code)
	require.Equal("bad context\n", errOut.String())
}
