package action

import "github.com/on-the-ground/effect_ive_store/stream"

// OfType keeps actions of kind KindOf[A]() and re-types them as A.
func OfType[A Action](s stream.Stream[Action]) stream.Stream[A] {
	kind := KindOf[A]()
	return stream.FilterMap(s, func(a Action) (A, bool) {
		if a.Kind() != kind {
			var zero A
			return zero, false
		}
		typed, ok := a.(A)
		return typed, ok
	})
}

// OfTypes keeps actions matching any of kinds. Kinds are tested in the order
// given. The result stays generic because it may mix shapes; to filter on a
// union too wide for one call, Merge several filtered streams.
func OfTypes(s stream.Stream[Action], kinds ...Kind) stream.Stream[Action] {
	return stream.Filter(s, func(a Action) bool {
		return matchAny(a.Kind(), kinds)
	})
}

// Widen re-exposes a stream of one concrete action type as generic actions.
func Widen[A Action](s stream.Stream[A]) stream.Stream[Action] {
	return stream.Map(s, func(a A) Action { return a })
}

func matchAny(k Kind, kinds []Kind) bool {
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}
