package model

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/zyedidia/generic/mapset"
)

var ErrPlacementExhausted = errors.New("robot placement exhausted")

// startCells excludes the four center cells and the ring around them.
var startCells = func() []Position {
	out := make([]Position, 0, Size*Size)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if x >= 6 && x <= 9 && y >= 6 && y <= 9 {
				continue
			}
			out = append(out, Position{X: x, Y: y})
		}
	}
	return out
}()

// InStartZone reports whether p may hold a freshly placed robot.
func InStartZone(p Position) bool {
	return p.InBoard() && !(p.X >= 6 && p.X <= 9 && p.Y >= 6 && p.Y <= 9)
}

// PlaceRobots puts one robot per color on distinct start cells, never on an
// avoided cell. Every robot starts with all four moves; real legality comes
// from the first resolve.
func PlaceRobots(rng *rand.Rand, colors []Color, avoid ...Position) ([]Robot, error) {
	taken := mapset.New[Position]()
	for _, p := range avoid {
		taken.Put(p)
	}
	robots := make([]Robot, 0, len(colors))
	for _, c := range colors {
		pos, ok := sample(rng, startCells, func(p Position) bool {
			return !taken.Has(p)
		})
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPlacementExhausted, c)
		}
		taken.Put(pos)
		robots = append(robots, Robot{
			Color:    c,
			Position: pos,
			Moves:    append([]Direction(nil), Directions...),
		})
	}
	return robots, nil
}
