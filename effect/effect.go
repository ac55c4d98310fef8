// Package effect describes side-effect pipelines that run against a store's
// action stream.
//
// An Effect is plain data. A store subscribes its Source to the actions it
// dispatches and, when Dispatch is set, feeds every action Source produces back
// into dispatch.
//
// # Feedback loops
//
// A dispatching effect whose Source turns an action kind into the same kind
// re-triggers itself forever. Either filter the trigger kind out of the output
// (map it to a different kind) or build the effect with NonDispatching. Stores
// panic with store.ErrDispatchLoop once nested dispatch runs too deep.
package effect

import (
	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/stream"
)

// Source turns the action stream into the stream of actions an effect produces.
type Source func(stream.Stream[action.Action]) stream.Stream[action.Action]

// Effect is a side-effect pipeline and whether its output re-enters dispatch.
//
// Source must not keep alive anything the registering scope owns beyond the
// registration: close over cancellable handles, not the scope itself.
type Effect struct {
	Dispatch bool
	Source   Source
}

// New returns an effect whose output is dispatched back into the store.
func New(source Source) Effect {
	return Effect{Dispatch: true, Source: source}
}

// NonDispatching returns an effect that is only observed: its output is dropped.
// Logging and navigation effects are typically non-dispatching.
func NonDispatching(source Source) Effect {
	return Effect{Dispatch: false, Source: source}
}

// Map builds a synchronous dispatching effect reacting to actions of type A.
func Map[A action.Action](f func(A) action.Action) Effect {
	return New(func(actions stream.Stream[action.Action]) stream.Stream[action.Action] {
		return stream.Map(action.OfType[A](actions), f)
	})
}

// Tap builds a non-dispatching effect running f for every action of type A.
func Tap[A action.Action](f func(A)) Effect {
	return NonDispatching(func(actions stream.Stream[action.Action]) stream.Stream[action.Action] {
		return action.Widen(stream.Map(action.OfType[A](actions), func(a A) A {
			f(a)
			return a
		}))
	})
}
