package model

import "fmt"

// Symbol is one of the 16 target icons. Symbol s has shape s/4 and the color
// of robot s%4, so silver is never a target color.
type Symbol int

const SymbolCount = 16

var shapeNames = [...]string{"circle", "triangle", "square", "hexagon"}

func (s Symbol) Color() Color {
	return Color(int(s) % 4)
}

func (s Symbol) Valid() bool {
	return s >= 0 && s < SymbolCount
}

func (s Symbol) String() string {
	if !s.Valid() {
		return fmt.Sprintf("symbol(%d)", int(s))
	}
	return s.Color().String() + "-" + shapeNames[int(s)/4]
}

type Goal struct {
	Position Position
	Symbol   Symbol
	Active   bool
}

// ActiveGoal returns the active goal or false when none is active.
func ActiveGoal(goals []Goal) (Goal, bool) {
	for _, g := range goals {
		if g.Active {
			return g, true
		}
	}
	return Goal{}, false
}
