package errlog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/results"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.ErrorLevel)
	return zap.New(core), logs
}

func TestFields(t *testing.T) {
	require := require.New(t)

	logger, logs := observedLogger()

	inner := apperrors.New(apperrors.NotFound, "user not found")
	e := apperrors.Wrap(apperrors.ExternalService, "profile fetch failed", inner).With("user_id", 42)

	logger.Error("fetch", Fields(e)...)

	entries := logs.All()
	require.Len(entries, 1)

	cm := entries[0].ContextMap()
	require.Equal("EXTERNAL_SERVICE_ERROR", cm["error_code"])
	require.Equal("profile fetch failed", cm["error_message"])
	require.Equal(map[string]interface{}{"user_id": 42}, cm["error_context"])
	require.Equal([]string{"user not found"}, cm["cause_chain"])
}

func TestFieldsNil(t *testing.T) {
	require := require.New(t)
	require.Empty(Fields(nil))
}

func TestFailure(t *testing.T) {
	require := require.New(t)

	logger, logs := observedLogger()

	Failure(logger, "lookup failed", apperrors.New(apperrors.NotFound, "no such user"))

	entries := logs.All()
	require.Len(entries, 1)
	require.Equal(zapcore.ErrorLevel, entries[0].Level)
	require.Equal("lookup failed", entries[0].Message)
	require.Equal("NOT_FOUND", entries[0].ContextMap()["error_code"])
}

func TestTapFailureLogsFailures(t *testing.T) {
	require := require.New(t)

	logger, logs := observedLogger()

	e := apperrors.New(apperrors.Conflict, "username taken")
	r := TapFailure(logger, "create user", results.Failure[string](e))

	require.Len(logs.All(), 1)
	require.Equal("create user", logs.All()[0].Message)

	// The result passes through untouched.
	results.Match(r,
		func(string) bool {
			require.Fail("expected a failure")
			return false
		},
		func(got *apperrors.AppError) bool {
			require.Same(e, got)
			return true
		},
	)
}

func TestTapFailureIgnoresSuccesses(t *testing.T) {
	require := require.New(t)

	logger, logs := observedLogger()

	r := TapFailure(logger, "create user", results.Success[string, *apperrors.AppError]("ok"))

	require.Empty(logs.All())
	require.Equal("ok", r.GetOrElse(""))
}
