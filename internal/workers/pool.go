// Package workers runs handlers on a fixed set of goroutines, routing each item
// to a worker by the hash of its partition key so items sharing a key are
// handled in submission order. Without a key, items are spread round robin.
//
// Submission never blocks: every worker owns an unbounded FIFO. Dispatch paths
// hand work to a pool while holding the store lock, and a worker may need that
// lock to finish its current item, so a bounded channel here could deadlock.
package workers

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Config sizes a Pool.
type Config struct {
	NumWorkers int // default: 1
}

// NewConfig normalizes non-positive values to their defaults.
func NewConfig(numWorkers int) Config {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return Config{NumWorkers: numWorkers}
}

// Pool is a set of partitioned workers. It stops when its context is done.
type Pool[T any] struct {
	partitions []*partition[T]
	key        func(T) string
	turn       atomic.Uint64
	ctx        context.Context
	wg         sync.WaitGroup
}

// Start launches cfg.NumWorkers goroutines calling handle for every submitted item.
// key may be nil when ordering across items does not matter; items are then
// handed to the workers in turn.
func Start[T any](
	ctx context.Context,
	cfg Config,
	key func(T) string,
	handle func(context.Context, T),
) *Pool[T] {
	cfg = NewConfig(cfg.NumWorkers)
	p := &Pool[T]{
		partitions: make([]*partition[T], cfg.NumWorkers),
		key:        key,
		ctx:        ctx,
	}

	ready := sync.WaitGroup{}
	for i := range p.partitions {
		part := &partition[T]{signal: make(chan struct{}, 1)}
		p.partitions[i] = part
		p.wg.Add(1)
		ready.Add(1)
		go func() {
			defer p.wg.Done()
			ready.Done()
			part.run(ctx, handle)
		}()
	}
	ready.Wait()

	return p
}

// Submit enqueues v for its partition. It reports false once the pool has stopped.
func (p *Pool[T]) Submit(v T) bool {
	if p.ctx.Err() != nil {
		return false
	}
	p.partitions[p.indexOf(v)].push(v)
	return true
}

// Wait blocks until every worker has returned.
func (p *Pool[T]) Wait() {
	p.wg.Wait()
}

func (p *Pool[T]) indexOf(v T) int {
	n := len(p.partitions)
	if n == 1 {
		return 0
	}
	if p.key == nil {
		return int((p.turn.Add(1) - 1) % uint64(n))
	}
	return int(xxhash.Sum64String(p.key(v)) % uint64(n))
}

type partition[T any] struct {
	mu     sync.Mutex
	items  []T
	signal chan struct{}
}

func (q *partition[T]) push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *partition[T]) pop() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return v, false
	}
	v = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

func (q *partition[T]) run(ctx context.Context, handle func(context.Context, T)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.signal:
		}
		for {
			v, ok := q.pop()
			if !ok {
				break
			}
			if ctx.Err() != nil {
				return
			}
			handle(ctx, v)
		}
	}
}
