// Package options provides an opaque presence/absence container.  An
// Option[T] is either Some carrying a value or None carrying nothing, and the
// variant can only be observed through Match or one of the named escape
// hatches.  There are deliberately no IsSome/IsNone predicates: a predicate
// plus an exposed field is exactly the unsafe pattern this package replaces.
//
// Combinators that introduce a new type parameter (Map, FlatMap, Zip) are
// package-level functions because Go methods cannot declare type parameters
// of their own.
package options

import "errors"

// ErrNone is the panic value of MustGet when called on a None.
var ErrNone = errors.New("option is none")

// Option holds either one value of type T or nothing.  The zero value is
// None.  Options are immutable: every combinator returns a new value.
type Option[T any] struct {
	value T
	some  bool
}

// Some creates an Option containing v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, some: true}
}

// None creates an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Match runs exactly one of the two handlers and returns its result.  It is
// the sole way to branch on an Option's variant.
func Match[T, R any](o Option[T], onSome func(T) R, onNone func() R) R {
	if o.some {
		return onSome(o.value)
	}
	return onNone()
}

// Map applies f to the contained value.  None is returned unchanged and f is
// never invoked on it.
func Map[T, U any](o Option[T], f func(T) U) Option[U] {
	if !o.some {
		return None[U]()
	}
	return Some(f(o.value))
}

// FlatMap applies f, which itself returns an Option, without nesting.  None
// is returned unchanged and f is never invoked on it.
func FlatMap[T, U any](o Option[T], f func(T) Option[U]) Option[U] {
	if !o.some {
		return None[U]()
	}
	return f(o.value)
}

// Pair carries the two values produced by Zip.
type Pair[A, B any] struct {
	Fst A
	Snd B
}

// Zip combines two Options into one, yielding Some only when both are Some.
func Zip[T, U any](a Option[T], b Option[U]) Option[Pair[T, U]] {
	if !a.some || !b.some {
		return None[Pair[T, U]]()
	}
	return Some(Pair[T, U]{Fst: a.value, Snd: b.value})
}

// Filter turns Some into None when the predicate rejects the value.  None
// stays None and the predicate is never invoked on it.
func (o Option[T]) Filter(pred func(T) bool) Option[T] {
	if !o.some || pred(o.value) {
		return o
	}
	return None[T]()
}

// Tap runs f on the contained value for its side effect and returns the
// Option unchanged.  On None it is a no-op.
func (o Option[T]) Tap(f func(T)) Option[T] {
	if o.some {
		f(o.value)
	}
	return o
}

// GetOrElse returns the contained value, or def when None.
func (o Option[T]) GetOrElse(def T) T {
	if o.some {
		return o.value
	}
	return def
}

// MustGet returns the contained value or panics with ErrNone.  It is the one
// sanctioned unsafe escape and belongs only at outermost boundaries that have
// no way to signal absence.
func (o Option[T]) MustGet() T {
	if !o.some {
		panic(ErrNone)
	}
	return o.value
}
