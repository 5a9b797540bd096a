// Package results provides an opaque success/failure container.  A
// Result[T, E] is always in exactly one of two variants: Success carrying a
// value of type T, or Failure carrying an error payload of type E.  The
// variant can only be observed through Match, so it is impossible to read a
// success value out of a failed computation or an error out of a successful
// one.  There are no IsSuccess/IsFailure predicates: the predecessor pattern
// of a narrowing predicate guarding public fields still allowed unguarded
// access, and this package exists to remove that hole.
//
// E is conventionally *apperrors.AppError but any payload type works.
// Combinators that introduce a new type parameter (Map, MapError, FlatMap,
// Match) are package-level functions because Go methods cannot declare type
// parameters of their own.
package results

import "github.com/abevier/outcome/options"

// Result holds either a success value or a failure payload, never both and
// never neither.  Results are immutable: construction is the only mutation
// point, and every combinator returns a new value.  The zero value is a
// Failure carrying E's zero value; prefer the constructors.
type Result[T, E any] struct {
	value T
	err   E
	ok    bool
}

// Success creates a succeeded Result.  It is total and is one of the only
// two ways to produce a Result.
func Success[T, E any](v T) Result[T, E] {
	return Result[T, E]{value: v, ok: true}
}

// Failure creates a failed Result.  It is total and is one of the only two
// ways to produce a Result.
func Failure[T, E any](e E) Result[T, E] {
	return Result[T, E]{err: e}
}

// Match runs exactly one of the two handlers and returns its result.  It is
// the sole way to extract information from a Result; every chain ends in
// exactly one Match at the boundary that turns the value into an effect.
func Match[T, E, R any](r Result[T, E], onSuccess func(T) R, onFailure func(E) R) R {
	if r.ok {
		return onSuccess(r.value)
	}
	return onFailure(r.err)
}

// Map applies f to the success value.  A Failure passes through unchanged
// and f is never invoked on it.
func Map[T, E, U any](r Result[T, E], f func(T) U) Result[U, E] {
	if !r.ok {
		return Failure[U](r.err)
	}
	return Success[U, E](f(r.value))
}

// MapError applies f to the failure payload.  A Success passes through
// unchanged and f is never invoked on it.
func MapError[T, E, F any](r Result[T, E], f func(E) F) Result[T, F] {
	if r.ok {
		return Success[T, F](r.value)
	}
	return Failure[T](f(r.err))
}

// FlatMap applies f, which itself returns a Result, without nesting.  A
// Failure passes through unchanged and f is never invoked on it.  FlatMap is
// associative: chaining order never changes the outcome.
func FlatMap[T, E, U any](r Result[T, E], f func(T) Result[U, E]) Result[U, E] {
	if !r.ok {
		return Failure[U](r.err)
	}
	return f(r.value)
}

// Collect folds a slice of Results into a Result of a slice.  The first
// Failure wins and short-circuits; otherwise all success values are returned
// in order.  This is the fold half of "await all, then combine pairwise" for
// fan-in of concurrent work.
func Collect[T, E any](rs []Result[T, E]) Result[[]T, E] {
	vs := make([]T, 0, len(rs))
	for _, r := range rs {
		if !r.ok {
			return Failure[[]T](r.err)
		}
		vs = append(vs, r.value)
	}
	return Success[[]T, E](vs)
}

// Tap runs f on the success value for its side effect and returns the Result
// unchanged.  On Failure it is a no-op.
func (r Result[T, E]) Tap(f func(T)) Result[T, E] {
	if r.ok {
		f(r.value)
	}
	return r
}

// TapError runs f on the failure payload for its side effect and returns the
// Result unchanged.  On Success it is a no-op.
func (r Result[T, E]) TapError(f func(E)) Result[T, E] {
	if !r.ok {
		f(r.err)
	}
	return r
}

// GetOrElse returns the success value, or def when failed.
func (r Result[T, E]) GetOrElse(def T) T {
	if r.ok {
		return r.value
	}
	return def
}

// MustGet returns the success value or panics with the failure payload.  It
// is the one sanctioned unsafe escape and belongs only at outermost
// boundaries with no other way to signal failure; everywhere else, reach for
// Match or GetOrElse.
func (r Result[T, E]) MustGet() T {
	if !r.ok {
		panic(r.err)
	}
	return r.value
}

// ToOption converts the Result to an Option, discarding the failure payload.
func (r Result[T, E]) ToOption() options.Option[T] {
	if !r.ok {
		return options.None[T]()
	}
	return options.Some(r.value)
}
