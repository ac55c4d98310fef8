// Package stream provides push-based, context-scoped value streams.
//
// A Stream is lazy: nothing happens until it is subscribed by calling it with a
// context and an observer. Every call is an independent subscription, so a
// Stream can be subscribed any number of times. A subscription ends when its
// context is done; streams never complete or fail on their own.
//
// Delivery is synchronous on whichever goroutine produced the value. Operators
// that hop goroutines (Delay, MapConcurrent, ToChan) say so.
package stream

import (
	"context"
	"sync"
)

// Stream delivers values to next until ctx is done.
type Stream[T any] func(ctx context.Context, next func(T))

// Map transforms every value.
func Map[T, R any](s Stream[T], f func(T) R) Stream[R] {
	return func(ctx context.Context, next func(R)) {
		s(ctx, func(v T) {
			next(f(v))
		})
	}
}

// Filter keeps values satisfying predicate.
func Filter[T any](s Stream[T], predicate func(T) bool) Stream[T] {
	return func(ctx context.Context, next func(T)) {
		s(ctx, func(v T) {
			if predicate(v) {
				next(v)
			}
		})
	}
}

// FilterMap transforms values and drops those for which f reports false.
func FilterMap[T, R any](s Stream[T], f func(T) (R, bool)) Stream[R] {
	return func(ctx context.Context, next func(R)) {
		s(ctx, func(v T) {
			if r, ok := f(v); ok {
				next(r)
			}
		})
	}
}

// Merge interleaves the values of all sources in the order they are produced.
func Merge[T any](sources ...Stream[T]) Stream[T] {
	return func(ctx context.Context, next func(T)) {
		for _, s := range sources {
			s(ctx, next)
		}
	}
}

// Distinct suppresses values equal to the one delivered just before them.
// Each subscription tracks its own previous value.
func Distinct[T any](s Stream[T], equal func(a, b T) bool) Stream[T] {
	return func(ctx context.Context, next func(T)) {
		var (
			mu   sync.Mutex
			last T
			seen bool
		)
		s(ctx, func(v T) {
			mu.Lock()
			if seen && equal(last, v) {
				mu.Unlock()
				return
			}
			last, seen = v, true
			mu.Unlock()
			next(v)
		})
	}
}

// Of replays values to each subscriber, synchronously, then stays silent.
func Of[T any](values ...T) Stream[T] {
	return func(ctx context.Context, next func(T)) {
		for _, v := range values {
			if ctx.Err() != nil {
				return
			}
			next(v)
		}
	}
}

// Collect subscribes to s and returns a function snapshotting everything received so far.
func Collect[T any](ctx context.Context, s Stream[T]) func() []T {
	var (
		mu  sync.Mutex
		got []T
	)
	s(ctx, func(v T) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})
	return func() []T {
		mu.Lock()
		defer mu.Unlock()
		return append([]T(nil), got...)
	}
}
