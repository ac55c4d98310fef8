package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_store/config"
	"github.com/on-the-ground/effect_ive_store/effect"
)

// DefaultMaxDispatchDepth bounds nested dispatch before a store reports a feedback loop.
const DefaultMaxDispatchDepth = config.DefaultMaxDispatchDepth

// Option configures a Store at construction.
type Option func(*settings)

type settings struct {
	ctx      context.Context
	effects  []effect.Effect
	logger   *zap.Logger
	maxDepth int
}

func newSettings(opts []Option) settings {
	s := settings{
		ctx:      context.Background(),
		logger:   zap.NewNop(),
		maxDepth: DefaultMaxDispatchDepth,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithEffects registers effects for the store's whole lifetime. They cannot be
// cancelled on their own; only Close (or the store context) ends them.
func WithEffects(effects ...effect.Effect) Option {
	return func(s *settings) {
		s.effects = append(s.effects, effects...)
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxDispatchDepth bounds nested dispatch. Non-positive values keep the default.
func WithMaxDispatchDepth(depth int) Option {
	return func(s *settings) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

// WithContext ties the store's lifetime to ctx: when ctx is done every effect stops.
func WithContext(ctx context.Context) Option {
	return func(s *settings) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithConfig applies the store section of a loaded configuration.
func WithConfig(cfg config.Config) Option {
	return WithMaxDispatchDepth(cfg.Store.MaxDispatchDepth)
}
