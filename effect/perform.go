package effect

import (
	"context"

	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/stream"
)

// Partitionable actions tell Perform which calls must run in order. Actions
// sharing a PartitionKey are handled one after another by the same worker.
type Partitionable interface {
	PartitionKey() string
}

// Perform runs fn on a pool of cfg.NumWorkers workers for every action of type
// A and dispatches its result. When A implements Partitionable, actions with
// the same PartitionKey are handled in order; otherwise calls are spread over
// the workers and may complete in any order. An error from fn is dispatched as
// action.Failure, so failures reach reducers as ordinary actions. A nil result
// with a nil error dispatches nothing.
//
// fn receives the registration context: cancelling the registration or closing
// the store cancels in-flight calls.
func Perform[A action.Action](
	cfg stream.WorkerConfig,
	fn func(context.Context, A) (action.Action, error),
) Effect {
	key := partitionKey[A]()
	return New(func(actions stream.Stream[action.Action]) stream.Stream[action.Action] {
		results := stream.MapConcurrent(
			action.OfType[A](actions),
			cfg,
			key,
			func(ctx context.Context, a A) action.Action {
				out, err := fn(ctx, a)
				if err != nil {
					return action.Failure{Origin: a.Kind(), Err: err}
				}
				return out
			},
		)
		return stream.Filter(results, func(a action.Action) bool {
			return a != nil
		})
	})
}

// partitionKey returns nil unless A implements Partitionable.
func partitionKey[A action.Action]() func(A) string {
	var zero A
	if _, ok := any(zero).(Partitionable); !ok {
		return nil
	}
	return func(a A) string {
		return any(a).(Partitionable).PartitionKey()
	}
}
