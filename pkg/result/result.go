// Package result carries the outcome of a data-access call without forcing the
// caller to tell "nothing there" apart from "could not ask" through error values.
package result

// State is the outcome class of a lookup.
type State string

const (
	StateOK     State = "ok"
	StateEmpty  State = "empty"
	StateFailed State = "failed"
)

// Result holds a value together with the state it was produced in. Value is the
// zero value unless State is StateOK; Err is set only when State is StateFailed.
type Result[T any] struct {
	State State
	Value T
	Err   error
}

func OK[T any](value T) Result[T] {
	return Result[T]{State: StateOK, Value: value}
}

func Empty[T any]() Result[T] {
	return Result[T]{State: StateEmpty}
}

// Failed records err. A nil err still yields a failed result.
func Failed[T any](err error) Result[T] {
	return Result[T]{State: StateFailed, Err: err}
}

func (r Result[T]) IsOK() bool     { return r.State == StateOK }
func (r Result[T]) IsEmpty() bool  { return r.State == StateEmpty }
func (r Result[T]) IsFailed() bool { return r.State == StateFailed }

// ValueOr returns Value when the result is ok, fallback otherwise.
func (r Result[T]) ValueOr(fallback T) T {
	if r.State == StateOK {
		return r.Value
	}
	return fallback
}

// Map converts the value of an ok result, preserving empty and failed states.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	switch r.State {
	case StateOK:
		return OK(fn(r.Value))
	case StateFailed:
		return Failed[U](r.Err)
	default:
		return Empty[U]()
	}
}
