// Package action defines the values dispatched to a store and the combinators
// effects use to narrow the generic action stream to concrete action shapes.
//
// Actions form a tagged union: every concrete action is a value type whose
// Kind method, declared on the value receiver, returns a constant tag.
//
//	type Increment struct{ By int }
//
//	func (Increment) Kind() action.Kind { return "counter/increment" }
//
// Filtering is keyed on the tag, never on reflection.
package action

import "fmt"

// Kind discriminates the concrete shape of an action.
type Kind string

// Action is any event dispatched to a store.
type Action interface {
	Kind() Kind
}

// KindOf returns the tag of the concrete action type A, read from its zero value.
func KindOf[A Action]() Kind {
	var zero A
	return zero.Kind()
}

// Kinds reserved by the store. The @@store/ prefix is not used by domain actions.
const (
	KindNoOp    Kind = "@@store/noop"
	KindFailure Kind = "@@store/failure"
)

// NoOp means "nothing dispatched yet". Mock stores seed their dispatched-actions
// channel with it.
type NoOp struct{}

// Kind returns KindNoOp.
func (NoOp) Kind() Kind { return KindNoOp }

// Failure carries an error produced by an effect pipeline as an ordinary action,
// so errors reach reducers instead of crossing the store boundary.
type Failure struct {
	Origin Kind
	Err    error
}

// Kind returns KindFailure.
func (Failure) Kind() Kind { return KindFailure }

// Error reports the failing action kind and the cause.
func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Origin, f.Err)
}

// Unwrap returns the cause, so errors.Is sees through a Failure.
func (f Failure) Unwrap() error {
	return f.Err
}
