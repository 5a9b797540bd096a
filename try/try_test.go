package try

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/results"
)

var errDB = errors.New("connection refused")

func failureOf[T any](req *require.Assertions, r results.Result[T, *apperrors.AppError]) *apperrors.AppError {
	return results.Match(r,
		func(T) *apperrors.AppError {
			req.Fail("expected a failure")
			return nil
		},
		func(e *apperrors.AppError) *apperrors.AppError { return e },
	)
}

func TestCatchSuccess(t *testing.T) {
	require := require.New(t)

	r := Catch(func() (int, error) { return 42, nil })
	require.Equal(42, r.MustGet())
}

func TestCatchError(t *testing.T) {
	require := require.New(t)

	r := Catch(func() (int, error) {
		return 0, fmt.Errorf("loading user: %w", errDB)
	})

	e := failureOf(require, r)
	require.Equal(apperrors.Internal, e.Kind())
	require.ErrorIs(e, errDB)
}

func TestCatchErrorPreservesKind(t *testing.T) {
	require := require.New(t)

	app := apperrors.New(apperrors.NotFound, "user 7 not found")
	r := Catch(func() (int, error) { return 0, app })

	require.Same(app, failureOf(require, r))
}

func TestCatchWrappedErrorPreservesKind(t *testing.T) {
	require := require.New(t)

	app := apperrors.New(apperrors.Forbidden, "no access")
	r := Catch(func() (int, error) {
		return 0, fmt.Errorf("checking acl: %w", app)
	})

	require.Same(app, failureOf(require, r))
}

func TestCatchPanic(t *testing.T) {
	require := require.New(t)

	r := Catch(func() (int, error) { panic("boom") })

	e := failureOf(require, r)
	require.Equal(apperrors.Internal, e.Kind())
	require.Equal("panic: boom", e.Message())
}

func TestCatchPanicPreservesKind(t *testing.T) {
	require := require.New(t)

	app := apperrors.New(apperrors.Conflict, "duplicate email")
	r := Catch(func() (int, error) { panic(app) })

	require.Same(app, failureOf(require, r))
}

func TestCatchRoundTripsMustGet(t *testing.T) {
	require := require.New(t)

	app := apperrors.New(apperrors.Validation, "bad input")
	failed := results.Failure[int](app)

	// MustGet panics with the failure payload, so re-entering the algebra
	// through Catch restores the identical error.
	r := Catch(func() (int, error) { return failed.MustGet(), nil })

	require.Same(app, failureOf(require, r))
}

func TestCatchAsync(t *testing.T) {
	require := require.New(t)

	ar := CatchAsync(func() (int, error) { return 42, nil })

	r, err := ar.Await(context.Background())
	require.NoError(err)
	require.Equal(42, r.MustGet())
}

func TestCatchAsyncPanicPreservesKind(t *testing.T) {
	require := require.New(t)

	app := apperrors.New(apperrors.NotFound, "gone")
	ar := CatchAsync(func() (int, error) { panic(app) })

	r, err := ar.Await(context.Background())
	require.NoError(err)
	require.Same(app, failureOf(require, r))
}
