package store_test

import (
	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/reducer"
)

type action1 struct{}

func (action1) Kind() action.Kind { return "test/action1" }

type action2 struct{}

func (action2) Kind() action.Kind { return "test/action2" }

type action3 struct{}

func (action3) Kind() action.Kind { return "test/action3" }

type scoreHome struct{ Points int }

func (scoreHome) Kind() action.Kind { return "test/score_home" }

type resetScore struct{}

func (resetScore) Kind() action.Kind { return "test/reset_score" }

type setCount struct{ Count int }

func (setCount) Kind() action.Kind { return "test/set_count" }

type gameState struct {
	Home       int
	Away       int
	Count      int
	LastAction action.Kind
	Error      string
}

var homePath = reducer.Path[gameState, int]{
	Get: func(s gameState) int { return s.Home },
	Set: func(s gameState, v int) gameState { s.Home = v; return s },
}

func homeReducer(home int, a action.Action) int {
	switch a := a.(type) {
	case scoreHome:
		return home + a.Points
	case resetScore:
		return 0
	default:
		return home
	}
}

func bookkeeping(s gameState, a action.Action) gameState {
	switch a := a.(type) {
	case setCount:
		s.Count = a.Count
	case resetScore:
		s.Away = 0
	case action.Failure:
		s.Error = a.Error()
	}
	s.LastAction = a.Kind()
	return s
}

var gameReducer = reducer.Combine(
	reducer.ForKey(homePath, homeReducer),
	bookkeeping,
)
