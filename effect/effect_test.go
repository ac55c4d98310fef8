package effect_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/effect"
	"github.com/on-the-ground/effect_ive_store/log"
	"github.com/on-the-ground/effect_ive_store/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type fetch struct{ ID int }

func (fetch) Kind() action.Kind { return "test/fetch" }

type fetched struct{ ID int }

func (fetched) Kind() action.Kind { return "test/fetched" }

type ignored struct{}

func (ignored) Kind() action.Kind { return "test/ignored" }

func run(ctx context.Context, e effect.Effect, src *stream.Passthrough[action.Action]) func() []action.Action {
	return stream.Collect(ctx, e.Source(src.Stream()))
}

func TestConstructors(t *testing.T) {
	src := func(s stream.Stream[action.Action]) stream.Stream[action.Action] { return s }

	assert.True(t, effect.New(src).Dispatch)
	assert.False(t, effect.NonDispatching(src).Dispatch)
}

func TestMap(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := stream.NewPassthrough[action.Action]()
	e := effect.Map(func(f fetch) action.Action { return fetched{ID: f.ID} })
	got := run(ctx, e, src)

	src.Send(fetch{ID: 1})
	src.Send(ignored{})

	assert.True(t, e.Dispatch)
	assert.Equal(t, []action.Action{fetched{ID: 1}}, got())
}

func TestTap(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ids []int
	src := stream.NewPassthrough[action.Action]()
	e := effect.Tap(func(f fetch) { ids = append(ids, f.ID) })
	run(ctx, e, src)

	src.Send(fetch{ID: 4})
	src.Send(ignored{})

	assert.False(t, e.Dispatch)
	assert.Equal(t, []int{4}, ids)
}

func TestPerform(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errNotFound := errors.New("not found")
	src := stream.NewPassthrough[action.Action]()
	e := effect.Perform(stream.NewWorkerConfig(2), func(_ context.Context, f fetch) (action.Action, error) {
		switch f.ID {
		case 0:
			return nil, errNotFound
		case 1:
			return nil, nil
		default:
			return fetched{ID: f.ID}, nil
		}
	})
	got := run(ctx, e, src)

	src.Send(fetch{ID: 2})
	src.Send(fetch{ID: 1})
	src.Send(fetch{ID: 0})
	src.Send(ignored{})

	require.Eventually(t, func() bool { return len(got()) == 2 }, time.Second, 5*time.Millisecond)
	var failure action.Failure
	for _, a := range got() {
		switch a := a.(type) {
		case fetched:
			assert.Equal(t, fetched{ID: 2}, a)
		case action.Failure:
			failure = a
		default:
			t.Fatalf("unexpected action %#v", a)
		}
	}
	assert.Equal(t, action.KindOf[fetch](), failure.Origin)
	assert.ErrorIs(t, failure, errNotFound)
}

func TestPerform_SpreadsCallsOverWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var running sync.WaitGroup
	running.Add(4)
	allRunning := make(chan struct{})
	go func() {
		running.Wait()
		close(allRunning)
	}()

	src := stream.NewPassthrough[action.Action]()
	e := effect.Perform(stream.NewWorkerConfig(4), func(ctx context.Context, f fetch) (action.Action, error) {
		running.Done()
		select {
		case <-allRunning:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return fetched{ID: f.ID}, nil
	})
	got := run(ctx, e, src)

	for i := 1; i <= 4; i++ {
		src.Send(fetch{ID: i})
	}

	select {
	case <-allRunning:
	case <-time.After(time.Second):
		t.Fatal("calls did not run concurrently")
	}
	require.Eventually(t, func() bool { return len(got()) == 4 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []action.Action{
		fetched{ID: 1}, fetched{ID: 2}, fetched{ID: 3}, fetched{ID: 4},
	}, got())
}

type transfer struct {
	Account string
	Seq     int
}

func (transfer) Kind() action.Kind { return "test/transfer" }

func (tr transfer) PartitionKey() string { return tr.Account }

func TestPerform_PartitionableActionsRunInOrderPerKey(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	seen := map[string][]int{}
	src := stream.NewPassthrough[action.Action]()
	e := effect.Perform(stream.NewWorkerConfig(4), func(_ context.Context, tr transfer) (action.Action, error) {
		mu.Lock()
		seen[tr.Account] = append(seen[tr.Account], tr.Seq)
		mu.Unlock()
		return nil, nil
	})
	run(ctx, e, src)

	accounts := []string{"alice", "bob", "carol"}
	for seq := 0; seq < 10; seq++ {
		for _, acc := range accounts {
			src.Send(transfer{Account: acc, Seq: seq})
		}
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, acc := range accounts {
			if len(seen[acc]) != 10 {
				return false
			}
		}
		return true
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, acc := range accounts {
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, seen[acc], acc)
	}
}

func TestLogging(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, logs := log.NewObserved(zapcore.DebugLevel)
	src := stream.NewPassthrough[action.Action]()
	e := effect.Logging(logger)
	run(ctx, e, src)

	src.Send(fetch{ID: 3})
	src.Send(action.Failure{Origin: "test/fetch", Err: errors.New("timeout")})

	assert.False(t, e.Dispatch)
	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "action dispatched", entries[0].Message)
	assert.Equal(t, `{"ID":3}`, entries[0].ContextMap()["payload"])
	assert.Equal(t, "effect failed", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "test/fetch", entries[1].ContextMap()["origin"])
}
