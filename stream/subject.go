package stream

import (
	"context"
	"sync"

	"github.com/on-the-ground/effect_ive_store/internal/reentrant"
)

type observer[T any] struct {
	id   uint64
	ctx  context.Context
	next func(T)
}

// observers is the fan-out list shared by both subjects. Delivery happens
// outside the lock so an observer may send to the same subject again.
type observers[T any] struct {
	mu     sync.Mutex
	nextID uint64
	list   []observer[T]
}

// addLocked must be called with o.mu held.
func (o *observers[T]) addLocked(ctx context.Context, next func(T)) {
	o.nextID++
	id := o.nextID
	o.list = append(o.list, observer[T]{id: id, ctx: ctx, next: next})
	context.AfterFunc(ctx, func() { o.remove(id) })
}

func (o *observers[T]) remove(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, obs := range o.list {
		if obs.id == id {
			o.list = append(o.list[:i:i], o.list[i+1:]...)
			return
		}
	}
}

// snapshotLocked must be called with o.mu held.
func (o *observers[T]) snapshotLocked() []observer[T] {
	return o.list
}

func (o *observers[T]) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.list)
}

func deliver[T any](list []observer[T], v T) {
	for _, obs := range list {
		// cancel() marks the context done synchronously, AfterFunc removal does not.
		if obs.ctx.Err() != nil {
			continue
		}
		obs.next(v)
	}
}

// CurrentValue is a broadcast subject that remembers its latest value and
// replays it to every new subscriber before any live value.
//
// Sends and replays are serialized by a reentrant lock held while observers
// run: a subscriber never receives the replayed value after a newer one, and an
// observer may still send to the same subject from its own goroutine.
type CurrentValue[T any] struct {
	delivery reentrant.Mutex
	obs      observers[T]
	value    T
}

// NewCurrentValue returns a subject holding initial.
func NewCurrentValue[T any](initial T) *CurrentValue[T] {
	return &CurrentValue[T]{value: initial}
}

// Send stores v and delivers it to every live subscriber.
func (c *CurrentValue[T]) Send(v T) {
	c.delivery.Lock()
	defer c.delivery.Unlock()

	c.obs.mu.Lock()
	c.value = v
	list := c.obs.snapshotLocked()
	c.obs.mu.Unlock()

	deliver(list, v)
}

// Value returns the latest value.
func (c *CurrentValue[T]) Value() T {
	c.obs.mu.Lock()
	defer c.obs.mu.Unlock()
	return c.value
}

// Stream exposes the subject as a Stream.
func (c *CurrentValue[T]) Stream() Stream[T] {
	return c.subscribe
}

// Subscribers reports how many subscriptions are attached.
func (c *CurrentValue[T]) Subscribers() int {
	return c.obs.len()
}

func (c *CurrentValue[T]) subscribe(ctx context.Context, next func(T)) {
	if ctx.Err() != nil {
		return
	}
	c.delivery.Lock()
	defer c.delivery.Unlock()

	c.obs.mu.Lock()
	c.obs.addLocked(ctx, next)
	current := c.value
	c.obs.mu.Unlock()

	next(current)
}

// Passthrough is a broadcast subject with no memory: subscribers only see
// values sent after they subscribed.
type Passthrough[T any] struct {
	obs observers[T]
}

// NewPassthrough returns an empty subject.
func NewPassthrough[T any]() *Passthrough[T] {
	return &Passthrough[T]{}
}

// Send delivers v to every live subscriber.
func (p *Passthrough[T]) Send(v T) {
	p.obs.mu.Lock()
	list := p.obs.snapshotLocked()
	p.obs.mu.Unlock()

	deliver(list, v)
}

// Stream exposes the subject as a Stream.
func (p *Passthrough[T]) Stream() Stream[T] {
	return p.subscribe
}

// Subscribers reports how many subscriptions are attached.
func (p *Passthrough[T]) Subscribers() int {
	return p.obs.len()
}

func (p *Passthrough[T]) subscribe(ctx context.Context, next func(T)) {
	if ctx.Err() != nil {
		return
	}
	p.obs.mu.Lock()
	p.obs.addLocked(ctx, next)
	p.obs.mu.Unlock()
}
