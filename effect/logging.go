package effect

import (
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/stream"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Logging returns a non-dispatching effect that logs every action at debug level
// with its kind and JSON payload. Failures are logged at warn level.
func Logging(logger *zap.Logger) Effect {
	return NonDispatching(func(actions stream.Stream[action.Action]) stream.Stream[action.Action] {
		return stream.Map(actions, func(a action.Action) action.Action {
			logAction(logger, a)
			return a
		})
	})
}

func logAction(logger *zap.Logger, a action.Action) {
	if f, ok := a.(action.Failure); ok {
		logger.Warn("effect failed",
			zap.String("kind", string(f.Kind())),
			zap.String("origin", string(f.Origin)),
			zap.Error(f.Err),
		)
		return
	}

	ce := logger.Check(zap.DebugLevel, "action dispatched")
	if ce == nil {
		return
	}
	payload, err := json.Marshal(a)
	if err != nil {
		ce.Write(zap.String("kind", string(a.Kind())), zap.NamedError("encodeError", err))
		return
	}
	ce.Write(zap.String("kind", string(a.Kind())), zap.ByteString("payload", payload))
}
