package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/effect"
	"github.com/on-the-ground/effect_ive_store/stream"
)

// Registration is the handle of a running effect.
type Registration struct {
	ID string

	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	once   sync.Once
}

// Cancel detaches the effect: actions dispatched after Cancel returns never reach
// its output, and its pipeline context is cancelled. Calling Cancel again is a no-op.
func (r *Registration) Cancel() {
	r.once.Do(func() {
		r.cancel()
		r.logger.Debug("effect cancelled", zap.String("registrationId", r.ID))
	})
}

// Done is closed once the effect stops, by Cancel or by store teardown.
func (r *Registration) Done() <-chan struct{} {
	return r.ctx.Done()
}

// register subscribes e to actions under a child of parent and routes its output
// to dispatch when the effect dispatches.
func register(
	parent context.Context,
	logger *zap.Logger,
	actions stream.Stream[action.Action],
	dispatch func(action.Action),
	e effect.Effect,
) *Registration {
	if e.Source == nil {
		panic("store: effect without a source")
	}

	ctx, cancel := context.WithCancel(parent)
	reg := &Registration{
		ID:     uuid.New().String(),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
	logger.Debug("effect registered", zap.String("registrationId", reg.ID), zap.Bool("dispatch", e.Dispatch))

	e.Source(actions)(ctx, func(a action.Action) {
		if !e.Dispatch || ctx.Err() != nil {
			return
		}
		dispatch(a)
	})
	return reg
}
