package store

import (
	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/effect"
	"github.com/on-the-ground/effect_ive_store/reducer"
	"github.com/on-the-ground/effect_ive_store/stream"
)

// Mock is a test double separating the state a view observes from the actions
// it dispatches. It never runs a reducer: tests stage state with SetState and
// assert on DispatchedActions.
type Mock[S any] struct {
	*Store[S]
	dispatched *stream.CurrentValue[action.Action]
}

// NewMock creates a mock store showing initial. Effects given with WithEffects
// observe the dispatched-actions channel.
func NewMock[S any](initial S, opts ...Option) *Mock[S] {
	set := newSettings(opts)
	m := &Mock[S]{
		Store:      newStore(reducer.Identity[S](), initial, set),
		dispatched: stream.NewCurrentValue[action.Action](action.NoOp{}),
	}
	for _, e := range set.effects {
		m.permanent = append(m.permanent, m.Register(e))
	}
	return m
}

// SetState publishes state to subscribers without dispatching anything.
func (m *Mock[S]) SetState(state S) {
	m.publish(state)
}

// Dispatch records a on DispatchedActions. State is left alone.
func (m *Mock[S]) Dispatch(a action.Action) {
	defer m.enter(a)()

	m.dispatched.Send(a)
}

// DispatchedActions streams the last dispatched action (action.NoOp before the
// first dispatch), then every later one.
func (m *Mock[S]) DispatchedActions() stream.Stream[action.Action] {
	return underLock(&m.mu, m.dispatched.Stream())
}

// LastDispatched returns the most recent dispatched action.
func (m *Mock[S]) LastDispatched() action.Action {
	return m.dispatched.Value()
}

// Register starts e against the dispatched-actions channel; its output, when
// dispatching, is recorded like any other dispatch.
func (m *Mock[S]) Register(e effect.Effect) *Registration {
	return register(m.ctx, m.logger, m.DispatchedActions(), m.Dispatch, e)
}
