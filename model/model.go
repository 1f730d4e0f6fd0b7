package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Board dimensions in logical cells and fine coordinates.
const (
	Size     = 16
	FineSize = 2*Size + 1
)

var (
	ErrUnknownRobot     = errors.New("unknown robot")
	ErrUnknownDirection = errors.New("unknown direction")
	ErrUnknownColor     = errors.New("unknown color")
)

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) InBoard() bool {
	return p.X >= 0 && p.X < Size && p.Y >= 0 && p.Y < Size
}

// Fine maps a logical cell to its center in fine coordinates.
func (p Position) Fine() (int, int) {
	return 2*p.X + 1, 2*p.Y + 1
}

func (p Position) Add(d Direction) Position {
	v := d.vector()
	return Position{X: p.X + v.dx, Y: p.Y + v.dy}
}

// Color identifies a robot. The order is the placement order.
type Color int

const (
	Red Color = iota
	Green
	Blue
	Yellow
	Silver
)

// Colors lists every robot color in placement order.
var Colors = []Color{Red, Green, Blue, Yellow, Silver}

var colorNames = [...]string{"red", "green", "blue", "yellow", "silver"}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

func ParseColor(s string) (Color, error) {
	for i, n := range colorNames {
		if n == s {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists the four directions in legal-move order.
var Directions = []Direction{Up, Down, Left, Right}

type vector struct {
	dx, dy int
}

var directionVectors = [...]vector{
	Up:    {0, -1},
	Down:  {0, 1},
	Left:  {-1, 0},
	Right: {1, 0},
}

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) Valid() bool {
	return d >= 0 && int(d) < len(directionVectors)
}

func (d Direction) vector() vector {
	if !d.Valid() {
		return vector{}
	}
	return directionVectors[d]
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection never fails: unknown tokens map to an invalid Direction,
// which the resolver treats as a no-op.
func ParseDirection(s string) Direction {
	for i, n := range directionNames {
		if n == s {
			return Direction(i)
		}
	}
	return Direction(-1)
}

type Robot struct {
	Color    Color
	Position Position
	Moves    []Direction
}

type Move struct {
	Color     Color
	Direction Direction
}

// Solution is the best-known solution record of a round.
type Solution struct {
	Moves     int
	Robots    int
	Submitter uuid.UUID
}

// Better reports whether s beats other: fewer moves, then fewer robots.
func (s Solution) Better(other *Solution) bool {
	if other == nil {
		return true
	}
	if s.Moves != other.Moves {
		return s.Moves < other.Moves
	}
	return s.Robots < other.Robots
}

// Board is one generated layout. Clusters is empty for fixture boards.
type Board struct {
	Grid     *BoundaryGrid
	Visual   VisualGrid
	Goals    []Goal
	Clusters []Cluster
}

func CloneRobots(robots []Robot) []Robot {
	out := make([]Robot, len(robots))
	for i, r := range robots {
		out[i] = r
		out[i].Moves = append([]Direction(nil), r.Moves...)
	}
	return out
}
