// Package equality decides whether two values are structurally equal.
//
// It is the single definition of "same value" shared by selector memoization and
// duplicate suppression on state streams.
package equality

import "reflect"

// Equatable lets a type override structural comparison.
type Equatable interface {
	Equals(other any) bool
}

// Equal reports whether a and b hold the same value.
//
//   - Equatable values decide for themselves.
//   - Values of a comparable dynamic type are compared with ==.
//   - Everything else (slices, maps, structs holding them) falls back to reflect.DeepEqual.
//
// Pointers compare by identity.
func Equal(a, b any) bool {
	if e, ok := a.(Equatable); ok {
		return e.Equals(b)
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		if eq, ok := compare(a, b); ok {
			return eq
		}
	}
	return reflect.DeepEqual(a, b)
}

// Args reports whether two argument tuples are pairwise Equal.
func Args(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// compare runs == and reports ok=false when the comparison panicked,
// which happens for comparable types carrying an interface field that holds
// a non-comparable value.
func compare(a, b any) (eq bool, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			eq, ok = false, false
		}
	}()
	return a == b, true
}
