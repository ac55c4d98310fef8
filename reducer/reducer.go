// Package reducer composes pure state-transition functions.
package reducer

import "github.com/on-the-ground/effect_ive_store/action"

// Func computes the next state from the current state and an action.
// It must be total, pure and deterministic: unknown actions return the state unchanged.
type Func[S any] func(S, action.Action) S

// Combine folds state through reducers in the order given, each one seeing the
// previous one's output for the same action.
//
// The result depends on that order whenever two reducers touch the same piece of
// state. Reducers combined here should act on disjoint sub-state.
func Combine[S any](reducers ...Func[S]) Func[S] {
	return func(state S, a action.Action) S {
		for _, r := range reducers {
			state = r(state, a)
		}
		return state
	}
}

// Identity ignores every action.
func Identity[S any]() Func[S] {
	return func(state S, _ action.Action) S {
		return state
	}
}

// Path addresses a K-typed slot inside S. Set returns a copy of S with only that
// slot replaced.
type Path[S, K any] struct {
	Get func(S) K
	Set func(S, K) S
}

// ForKey lifts a reducer over the slot at path into a reducer over the whole state.
func ForKey[S, K any](path Path[S, K], r Func[K]) Func[S] {
	return func(state S, a action.Action) S {
		return path.Set(state, r(path.Get(state), a))
	}
}
