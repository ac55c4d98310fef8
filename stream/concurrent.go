package stream

import (
	"context"
	"time"

	"github.com/on-the-ground/effect_ive_store/internal/workers"
)

// WorkerConfig sizes the worker pool behind MapConcurrent.
type WorkerConfig = workers.Config

// NewWorkerConfig normalizes non-positive worker counts to 1.
func NewWorkerConfig(numWorkers int) WorkerConfig {
	return workers.NewConfig(numWorkers)
}

// MapConcurrent runs f on a pool of worker goroutines started per subscription.
// Values with the same key are handled in arrival order by the same worker;
// key may be nil when order does not matter. Results are delivered from the
// worker goroutines. Handing a value to the pool never blocks the producer.
//
// The context passed to f is the subscription context, so a cancelled
// subscription also cancels in-flight work.
func MapConcurrent[T, R any](
	s Stream[T],
	cfg WorkerConfig,
	key func(T) string,
	f func(context.Context, T) R,
) Stream[R] {
	return func(ctx context.Context, next func(R)) {
		if ctx.Err() != nil {
			return
		}
		pool := workers.Start(ctx, cfg, key, func(ctx context.Context, v T) {
			r := f(ctx, v)
			if ctx.Err() != nil {
				return
			}
			next(r)
		})
		s(ctx, func(v T) {
			pool.Submit(v)
		})
	}
}

// Delay re-emits every value after d on a timer goroutine.
// Values still pending when the subscription ends are dropped.
func Delay[T any](s Stream[T], d time.Duration) Stream[T] {
	return func(ctx context.Context, next func(T)) {
		s(ctx, func(v T) {
			time.AfterFunc(d, func() {
				if ctx.Err() != nil {
					return
				}
				next(v)
			})
		})
	}
}

// ToChan bridges a subscription to a channel. Values are queued without bound
// so a slow reader never blocks the producer. The channel is closed once ctx is
// done and the pump goroutine has exited.
func ToChan[T any](ctx context.Context, s Stream[T]) <-chan T {
	out := make(chan T)
	pool := workers.Start(ctx, workers.NewConfig(1), nil, func(ctx context.Context, v T) {
		select {
		case out <- v:
		case <-ctx.Done():
		}
	})
	go func() {
		pool.Wait()
		close(out)
	}()

	s(ctx, func(v T) {
		pool.Submit(v)
	})
	return out
}
