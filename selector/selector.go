// Package selector builds composed, memoized projections over state.
//
// A composed selector evaluates its input selectors against the state and feeds
// their results to a transformation. When memoized (the default), two size-1
// caches apply:
//
//   - the transformation is skipped while every argument equals the previous call's,
//   - the whole selector is skipped while the state equals the previous state.
//
// Caches hold exactly one entry: the access pattern is "project the latest
// state", where only previous-versus-current matters. Equality is structural
// (see internal/equality), so value-typed state works without identity tricks.
//
// Transformations must be pure. An impure transformation may return stale
// results from the state cache.
package selector

import (
	"sync"

	"github.com/on-the-ground/effect_ive_store/internal/equality"
)

// Func derives a value from state.
type Func[S, V any] func(S) V

// Option tunes a composed selector.
type Option func(*options)

type options struct {
	memoized bool
}

// Unmemoized disables both caches: every call recomputes.
func Unmemoized() Option {
	return func(o *options) {
		o.memoized = false
	}
}

func newOptions(opts []Option) options {
	o := options{memoized: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Erase widens a typed selector so it can be passed to Create.
func Erase[S, V any](f func(S) V) func(S) any {
	return func(s S) any {
		return f(s)
	}
}

// Create composes any number of input selectors with a transformation receiving
// their results in order.
func Create[S, T any](
	inputs []func(S) any,
	transform func(args []any) T,
	opts ...Option,
) Func[S, T] {
	if len(inputs) == 0 {
		panic("selector: Create needs at least one input selector")
	}
	o := newOptions(opts)
	if o.memoized {
		transform = memoizeArgs(transform)
	}

	compute := func(s S) T {
		args := make([]any, len(inputs))
		for i, in := range inputs {
			args[i] = in(s)
		}
		return transform(args)
	}
	if !o.memoized {
		return compute
	}
	return memoizeState(compute)
}

// slot is a size-1 cache.
type slot[K, V any] struct {
	mu    sync.Mutex
	key   K
	value V
	full  bool
}

func (c *slot[K, V]) load(key K, equal func(a, b K) bool) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full && equal(c.key, key) {
		return c.value, true
	}
	var zero V
	return zero, false
}

func (c *slot[K, V]) store(key K, value V) {
	c.mu.Lock()
	c.key, c.value, c.full = key, value, true
	c.mu.Unlock()
}

// memoizeArgs caches the transformation on its whole argument tuple: a miss on
// any argument recomputes and replaces the entry.
func memoizeArgs[T any](transform func([]any) T) func([]any) T {
	cache := &slot[[]any, T]{}
	return func(args []any) T {
		if v, ok := cache.load(args, equality.Args); ok {
			return v
		}
		v := transform(args)
		cache.store(args, v)
		return v
	}
}

// memoizeState caches a selector on its input state.
func memoizeState[S, T any](f func(S) T) Func[S, T] {
	cache := &slot[S, T]{}
	equal := func(a, b S) bool { return equality.Equal(a, b) }
	return func(s S) T {
		if v, ok := cache.load(s, equal); ok {
			return v
		}
		v := f(s)
		cache.store(s, v)
		return v
	}
}
