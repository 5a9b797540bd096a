// Package asyncresults provides AsyncResult, a deferred computation that
// eventually resolves to a results.Result.  An AsyncResult can be created and
// then passed around and awaited by multiple consumers; every consumer
// observes the same resolution.  This is the key difference between an
// AsyncResult and using a channel for an asynchronous computation, as a
// channel value can only be read once.
//
// An AsyncResult never surfaces a raw panic or abort from the computation it
// wraps.  Every constructor takes a trap function that folds such failures
// into the error type E, so consumers of the resolved Result see exactly two
// outcomes: Success or Failure.  The conventional trap for E = *AppError is
// apperrors.FromError, wired up by the try package.
package asyncresults

import (
	"context"
	"sync/atomic"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/results"
)

// RunFunc is the function signature required to create an AsyncResult via Run.
type RunFunc[T any, E any] func() results.Result[T, E]

// AsyncResult represents an asynchronous computation resolving to a
// Result[T, E].  It is created with New, Run, or FromResult and can be
// resolved exactly once: the first resolution wins and all later resolutions
// are silently ignored.
//
// Resolve, Succeed and Fail all resolve an AsyncResult.  Await extracts the
// resolved Result, blocking until resolution or until the caller's context is
// done; it can be called from multiple goroutines simultaneously and they all
// receive the same Result.
type AsyncResult[T any, E any] struct {
	trap func(error) E

	isResolved uint32
	resolved   chan struct{}

	res results.Result[T, E]
}

// New creates a new unresolved AsyncResult that must be manually resolved by
// calling Resolve, Succeed, or Fail.  The trap function is required: it folds
// panics and aborts from derived computations into E.
func New[T any, E any](trap func(error) E) *AsyncResult[T, E] {
	if trap == nil {
		panic("asyncresults: a trap function is required")
	}
	return &AsyncResult[T, E]{
		trap:     trap,
		resolved: make(chan struct{}),
	}
}

// Run creates an AsyncResult that resolves to the return value of the
// provided function.  The function is run on its own goroutine immediately.
// If it panics, the panic is recovered and folded into a Failure via trap.
func Run[T any, E any](trap func(error) E, run RunFunc[T, E]) *AsyncResult[T, E] {
	ar := New[T, E](trap)

	go func() {
		defer ar.recoverToFailure()
		ar.Resolve(run())
	}()

	return ar
}

// FromResult creates an already-resolved AsyncResult holding r.
func FromResult[T any, E any](trap func(error) E, r results.Result[T, E]) *AsyncResult[T, E] {
	ar := New[T, E](trap)
	ar.Resolve(r)
	return ar
}

// Resolve resolves this AsyncResult with the provided Result.  If it has
// already been resolved this call is ignored.
func (ar *AsyncResult[T, E]) Resolve(r results.Result[T, E]) {
	if atomic.CompareAndSwapUint32(&ar.isResolved, 0, 1) {
		ar.res = r
		close(ar.resolved)
	}
}

// Succeed resolves this AsyncResult with a Success.  If it has already been
// resolved this call is ignored.
func (ar *AsyncResult[T, E]) Succeed(value T) {
	ar.Resolve(results.Success[T, E](value))
}

// Fail resolves this AsyncResult with a Failure.  If it has already been
// resolved this call is ignored.
func (ar *AsyncResult[T, E]) Fail(e E) {
	ar.Resolve(results.Failure[T, E](e))
}

// Await retrieves the resolved Result.  If the AsyncResult is not yet
// resolved this call blocks until it is, or until the provided context is
// done, in which case the context's error is returned.  Abandoning a wait
// this way does not resolve the computation; cancellation of the computation
// itself must travel through the computation's own context and arrives as an
// ordinary Failure.
func (ar *AsyncResult[T, E]) Await(ctx context.Context) (results.Result[T, E], error) {
	select {
	case <-ar.resolved:
		return ar.res, nil
	case <-ctx.Done():
		return *new(results.Result[T, E]), ctx.Err()
	}
}

// recoverToFailure resolves the AsyncResult with a trapped Failure if the
// current goroutine is panicking.  It must be deferred around any
// caller-supplied function.
func (ar *AsyncResult[T, E]) recoverToFailure() {
	if v := recover(); v != nil {
		ar.Fail(ar.trap(panicError(v)))
	}
}

// panicError shapes a recovered panic value into an error for the trap.
func panicError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return apperrors.PanicError{Value: v}
}

// MapAsync returns an AsyncResult that resolves to ar's Result with the
// success value transformed by f.  A Failure passes through untouched.  f
// runs only after ar has resolved; if it panics the panic is folded into a
// Failure via ar's trap.
func MapAsync[T any, E any, U any](ar *AsyncResult[T, E], f func(value T) U) *AsyncResult[U, E] {
	next := New[U, E](ar.trap)

	go func() {
		defer next.recoverToFailure()
		<-ar.resolved
		next.Resolve(results.Map(ar.res, f))
	}()

	return next
}

// FlatMapAsync returns an AsyncResult that resolves to the Result of the
// AsyncResult produced by f.  The chain is strictly sequential: ar resolves
// first, then f's AsyncResult is awaited.  A Failure in ar short-circuits and
// f is never invoked.
func FlatMapAsync[T any, E any, U any](ar *AsyncResult[T, E], f func(value T) *AsyncResult[U, E]) *AsyncResult[U, E] {
	next := New[U, E](ar.trap)

	go func() {
		defer next.recoverToFailure()
		<-ar.resolved

		inner := results.Match(ar.res,
			func(value T) *AsyncResult[U, E] { return f(value) },
			func(e E) *AsyncResult[U, E] {
				return FromResult(ar.trap, results.Failure[U, E](e))
			},
		)

		<-inner.resolved
		next.Resolve(inner.res)
	}()

	return next
}

// TapAsync returns an AsyncResult that resolves to the same Result as ar,
// invoking f on the success value for its side effect.  If f panics the panic
// is folded into a Failure via ar's trap.
func TapAsync[T any, E any](ar *AsyncResult[T, E], f func(value T)) *AsyncResult[T, E] {
	next := New[T, E](ar.trap)

	go func() {
		defer next.recoverToFailure()
		<-ar.resolved
		next.Resolve(ar.res.Tap(f))
	}()

	return next
}

// AwaitAll waits for all of the provided AsyncResults to resolve and returns
// each Result at the index corresponding to the provided slice.  If the
// provided context is done before every AsyncResult has resolved, the
// context's error is returned.  Fan-in composition pairs this with
// results.Collect.
func AwaitAll[T any, E any](ctx context.Context, ars []*AsyncResult[T, E]) ([]results.Result[T, E], error) {
	res := make([]results.Result[T, E], 0, len(ars))

	for _, ar := range ars {
		r, err := ar.Await(ctx)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}

	return res, nil
}
