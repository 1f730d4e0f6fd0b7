package model

import "github.com/zyedidia/generic/mapset"

// Check reports whether a robot of the active goal's color stands on it.
func Check(robots []Robot, goals []Goal) bool {
	goal, ok := ActiveGoal(goals)
	if !ok {
		return false
	}
	return Reached(goal, robots)
}

// Reached reports whether the robot of g's color stands on g.
func Reached(g Goal, robots []Robot) bool {
	want := g.Symbol.Color()
	for _, r := range robots {
		if r.Color == want && r.Position == g.Position {
			return true
		}
	}
	return false
}

// Score counts the applied moves of a batch and the distinct robots they
// moved. errs is the per-move result of Resolve.
func Score(moves []Move, errs []error) (int, int) {
	applied := 0
	robots := mapset.New[Color]()
	for i, m := range moves {
		if i < len(errs) && errs[i] != nil {
			continue
		}
		applied++
		robots.Put(m.Color)
	}
	return applied, robots.Size()
}
