// Package store holds a single state tree, applies reducers to dispatched
// actions, publishes every resulting state and action, and runs effects.
//
// Dispatch is synchronous. The state is published before the action that
// produced it, so an effect reacting to an action already sees the updated
// state. An effect that dispatches synchronously from inside that reaction
// re-enters Dispatch on the same goroutine: the nested dispatch runs to
// completion, depth first, before the outer one returns. Dispatches from other
// goroutines (asynchronous effect stages, callers) wait their turn.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/effect"
	"github.com/on-the-ground/effect_ive_store/internal/equality"
	"github.com/on-the-ground/effect_ive_store/internal/reentrant"
	"github.com/on-the-ground/effect_ive_store/reducer"
	"github.com/on-the-ground/effect_ive_store/stream"
)

// ErrDispatchLoop is the panic value (wrapped) raised when nested dispatch
// exceeds the configured depth, which almost always means a dispatching effect
// maps an action kind back onto itself.
var ErrDispatchLoop = errors.New("dispatch nested too deep, an effect is likely feeding its own trigger")

// Interface is what views, view models and effects need from a store.
// Both Store and Mock implement it.
type Interface[S any] interface {
	Dispatch(action.Action)
	States() stream.Stream[S]
	Register(effect.Effect) *Registration
}

var (
	_ Interface[struct{}] = (*Store[struct{}])(nil)
	_ Interface[struct{}] = (*Mock[struct{}])(nil)
)

// Store owns the state of type S.
type Store[S any] struct {
	ID string

	mu      reentrant.Mutex
	state   S
	reducer reducer.Func[S]
	states  *stream.CurrentValue[S]
	actions *stream.Passthrough[action.Action]

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	permanent []*Registration

	maxDepth int
	logger   *zap.Logger
}

// New creates a store holding initial and registers the effects passed with
// WithEffects for the store's lifetime.
func New[S any](r reducer.Func[S], initial S, opts ...Option) *Store[S] {
	set := newSettings(opts)
	s := newStore(r, initial, set)
	for _, e := range set.effects {
		s.permanent = append(s.permanent, s.Register(e))
	}
	return s
}

func newStore[S any](r reducer.Func[S], initial S, set settings) *Store[S] {
	ctx, cancel := context.WithCancel(set.ctx)
	id := uuid.New().String()
	s := &Store[S]{
		ID:       id,
		state:    initial,
		reducer:  r,
		states:   stream.NewCurrentValue(initial),
		actions:  stream.NewPassthrough[action.Action](),
		ctx:      ctx,
		cancel:   cancel,
		maxDepth: set.maxDepth,
		logger:   set.logger.With(zap.String("storeId", id)),
	}
	s.logger.Debug("store created", zap.Int("effects", len(set.effects)))
	return s
}

// Dispatch reduces a into a new state, publishes the state, then publishes a.
// It never fails. It panics with ErrDispatchLoop when nested dispatch runs
// deeper than the configured maximum.
func (s *Store[S]) Dispatch(a action.Action) {
	defer s.enter(a)()

	s.state = s.reducer(s.state, a)
	s.states.Send(s.state)
	s.actions.Send(a)
}

// enter takes the dispatch lock, checks the nesting depth and returns the release func.
func (s *Store[S]) enter(a action.Action) func() {
	depth := s.mu.Lock()
	if depth > s.maxDepth {
		s.mu.Unlock()
		s.logger.Error("dispatch loop detected",
			zap.String("kind", string(a.Kind())),
			zap.Int("depth", depth),
		)
		panic(fmt.Errorf("%w: depth %d reached dispatching %s", ErrDispatchLoop, depth, a.Kind()))
	}
	if ce := s.logger.Check(zap.DebugLevel, "dispatch"); ce != nil {
		ce.Write(zap.String("kind", string(a.Kind())), zap.Int("depth", depth))
	}
	return s.mu.Unlock
}

// States streams the current state, then every later state. Subscribing from
// any goroutine is ordered against dispatch: the first value is never older than
// one delivered after it.
func (s *Store[S]) States() stream.Stream[S] {
	return underLock(&s.mu, s.states.Stream())
}

// State returns the latest published state.
func (s *Store[S]) State() S {
	return s.states.Value()
}

// Register starts e against the store's action stream and returns its handle.
// Registering on a closed store returns an already cancelled registration.
func (s *Store[S]) Register(e effect.Effect) *Registration {
	return register(s.ctx, s.logger, s.actions.Stream(), s.Dispatch, e)
}

// Close ends every effect, including those passed at construction.
func (s *Store[S]) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.logger.Debug("store closed", zap.Int("permanentEffects", len(s.permanent)))
	})
}

// publish replaces the state without running the reducer.
func (s *Store[S]) publish(state S) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
	s.states.Send(state)
}

// underLock subscribes to src while holding the dispatch lock, so a replayed
// value cannot race a dispatch on another goroutine. Lock order is always the
// dispatch lock first, then the subject's own delivery lock.
func underLock[T any](mu *reentrant.Mutex, src stream.Stream[T]) stream.Stream[T] {
	return func(ctx context.Context, next func(T)) {
		mu.Lock()
		defer mu.Unlock()

		src(ctx, next)
	}
}

// Select projects every state through fn and drops consecutive equal
// projections. Each subscriber immediately receives the current projection.
func Select[S, V any](st Interface[S], fn func(S) V) stream.Stream[V] {
	return stream.Distinct(stream.Map(st.States(), fn), func(a, b V) bool {
		return equality.Equal(a, b)
	})
}
