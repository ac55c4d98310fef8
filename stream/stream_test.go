package stream_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/on-the-ground/effect_ive_store/stream"
	"github.com/stretchr/testify/assert"
)

func TestStream_MapFilter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := stream.NewPassthrough[int]()
	mapped := stream.Map(
		stream.Filter(src.Stream(), func(v int) bool { return v%2 == 0 }),
		func(v int) string { return fmt.Sprintf("v=%d", v) },
	)
	got := stream.Collect(ctx, mapped)

	for i := 1; i <= 5; i++ {
		src.Send(i)
	}

	assert.Equal(t, []string{"v=2", "v=4"}, got())
}

func TestStream_FilterMap(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := stream.Collect(ctx, stream.FilterMap(stream.Of(1, 2, 3, 4), func(v int) (int, bool) {
		return v * 10, v > 2
	}))

	assert.Equal(t, []int{30, 40}, got())
}

func TestStream_MergeKeepsEmissionOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := stream.NewPassthrough[string]()
	b := stream.NewPassthrough[string]()
	got := stream.Collect(ctx, stream.Merge(a.Stream(), b.Stream()))

	a.Send("a1")
	b.Send("b1")
	a.Send("a2")

	assert.Equal(t, []string{"a1", "b1", "a2"}, got())
}

func TestStream_DistinctSuppressesConsecutiveDuplicates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eq := func(a, b int) bool { return a == b }
	got := stream.Collect(ctx, stream.Distinct(stream.Of(1, 1, 2, 2, 2, 1, 3, 3), eq))

	assert.Equal(t, []int{1, 2, 1, 3}, got())
}

func TestStream_IsRestartable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := stream.Distinct(stream.Of(1, 1, 2), func(a, b int) bool { return a == b })

	first := stream.Collect(ctx, s)
	second := stream.Collect(ctx, s)

	assert.Equal(t, []int{1, 2}, first())
	assert.Equal(t, []int{1, 2}, second())
}

func TestStream_OfStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := stream.Collect(ctx, stream.Of(1, 2, 3))

	assert.Empty(t, got())
}
