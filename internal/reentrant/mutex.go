// Package reentrant provides a mutex that the owning goroutine may lock again.
package reentrant

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// Mutex serializes goroutines while letting the goroutine that holds it
// re-acquire it. Lock returns the nesting depth after acquisition.
//
// The zero value is an unlocked mutex. A Mutex must not be copied after first use.
type Mutex struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

// Lock acquires the mutex and returns the current nesting depth (1 for the outermost call).
func (m *Mutex) Lock() int {
	gid := goid.Get()
	if m.owner.Load() == gid {
		m.depth++
		return m.depth
	}
	m.mu.Lock()
	m.owner.Store(gid)
	m.depth = 1
	return m.depth
}

// Unlock releases one level of nesting. Unlocking from a goroutine that does not
// own the mutex panics.
func (m *Mutex) Unlock() {
	if m.owner.Load() != goid.Get() {
		panic("reentrant: unlock of mutex not owned by this goroutine")
	}
	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.mu.Unlock()
	}
}
