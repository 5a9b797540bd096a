// Package remotedata provides RemoteData, a four-state value for data that
// arrives asynchronously: NotAsked before anything happens, Loading while a
// request is in flight, and Success or Failure once it concludes.  Tracking
// the request lifecycle in one value instead of scattered booleans removes
// the classic "spinner forever" and "stale error" bugs.
//
// The terminal transitions are deliberately hard to misuse.  A stored
// RemoteData value has no ToSuccess or ToFailure methods; the only transition
// it offers is ToLoading, which returns a Loading witness, and the witness is
// the only value that can complete to a terminal state.  Skipping the Loading
// state is therefore not a runtime error but a method that does not exist.
package remotedata

import "github.com/abevier/outcome/results"

type state uint8

const (
	stateNotAsked state = iota
	stateLoading
	stateSuccess
	stateFailure
)

// RemoteData is an immutable snapshot of an asynchronous request's lifecycle.
// The zero value is NotAsked.
type RemoteData[T any, E any] struct {
	state state
	value T
	err   E
}

// NotAsked returns the initial lifecycle state: no request has been made.
func NotAsked[T any, E any]() RemoteData[T, E] {
	return RemoteData[T, E]{state: stateNotAsked}
}

// ToLoading begins (or re-begins) a request, returning the Loading witness
// that can complete it.  It is legal from every state: from Success it is a
// refetch, from Failure a retry.
func (rd RemoteData[T, E]) ToLoading() Loading[T, E] {
	return Loading[T, E]{}
}

// Loading is the completion witness for an in-flight request.  Holding one is
// the capability to conclude the request; code that is merely shown a
// RemoteData snapshot cannot.
type Loading[T any, E any] struct{}

// State returns the storable in-flight RemoteData value.
func (Loading[T, E]) State() RemoteData[T, E] {
	return RemoteData[T, E]{state: stateLoading}
}

// ToSuccess concludes the request with a value.
func (Loading[T, E]) ToSuccess(value T) RemoteData[T, E] {
	return RemoteData[T, E]{state: stateSuccess, value: value}
}

// ToFailure concludes the request with an error.
func (Loading[T, E]) ToFailure(e E) RemoteData[T, E] {
	return RemoteData[T, E]{state: stateFailure, err: e}
}

// Done concludes the request from a Result, mapping Success to Success and
// Failure to Failure.
func (l Loading[T, E]) Done(r results.Result[T, E]) RemoteData[T, E] {
	return results.Match(r, l.ToSuccess, l.ToFailure)
}

// FromResult lifts a concluded computation into the lifecycle.  A Result only
// exists once a computation has finished, so this never produces NotAsked or
// Loading.
func FromResult[T any, E any](r results.Result[T, E]) RemoteData[T, E] {
	return Loading[T, E]{}.Done(r)
}

// Match reduces a RemoteData to a single value by applying the handler for
// its state.  All four handlers are required; there is no default case, so
// every caller decides explicitly what "not yet asked" and "in flight" mean
// for it.
func Match[T any, E any, R any](rd RemoteData[T, E], onNotAsked func() R, onLoading func() R, onSuccess func(value T) R, onFailure func(e E) R) R {
	switch rd.state {
	case stateLoading:
		return onLoading()
	case stateSuccess:
		return onSuccess(rd.value)
	case stateFailure:
		return onFailure(rd.err)
	default:
		return onNotAsked()
	}
}
