package reducer_test

import (
	"testing"

	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/reducer"
	"github.com/stretchr/testify/assert"
)

type bump struct{}

func (bump) Kind() action.Kind { return "test/bump" }

type other struct{}

func (other) Kind() action.Kind { return "test/other" }

type pair struct {
	X, Y int
}

type match struct {
	Home, Away int
}

var (
	incrementX reducer.Func[pair] = func(s pair, a action.Action) pair {
		if _, ok := a.(bump); ok {
			s.X++
		}
		return s
	}
	copyXToY reducer.Func[pair] = func(s pair, a action.Action) pair {
		if _, ok := a.(bump); ok {
			s.Y = s.X
		}
		return s
	}
	increment reducer.Func[int] = func(n int, a action.Action) int {
		switch a.(type) {
		case bump:
			return n + 1
		default:
			return n
		}
	}
	homePath = reducer.Path[match, int]{
		Get: func(m match) int { return m.Home },
		Set: func(m match, v int) match { m.Home = v; return m },
	}
)

func TestCombine_LaterReducersSeeEarlierOutput(t *testing.T) {
	r := reducer.Combine(incrementX, copyXToY)

	got := r(pair{}, bump{})

	assert.Equal(t, pair{X: 1, Y: 1}, got)
}

func TestCombine_OrderMatters(t *testing.T) {
	r := reducer.Combine(copyXToY, incrementX)

	got := r(pair{}, bump{})

	assert.Equal(t, pair{X: 1, Y: 0}, got)
}

func TestCombine_IsDeterministic(t *testing.T) {
	r := reducer.Combine(incrementX, copyXToY)
	start := pair{X: 3, Y: 7}

	assert.Equal(t, r(start, bump{}), r(start, bump{}))
	assert.Equal(t, start, r(start, other{}))
}

func TestCombine_Empty(t *testing.T) {
	assert.Equal(t, pair{X: 2}, reducer.Combine[pair]()(pair{X: 2}, bump{}))
}

func TestForKey_TouchesOnlyItsSlot(t *testing.T) {
	r := reducer.ForKey(homePath, increment)

	got := r(match{}, bump{})

	assert.Equal(t, match{Home: 1, Away: 0}, got)
}

func TestForKey_LeavesInputUntouched(t *testing.T) {
	start := match{Home: 2, Away: 5}
	r := reducer.ForKey(homePath, increment)

	_ = r(start, bump{})

	assert.Equal(t, match{Home: 2, Away: 5}, start)
}

func TestIdentity(t *testing.T) {
	assert.Equal(t, match{Home: 4}, reducer.Identity[match]()(match{Home: 4}, bump{}))
}
