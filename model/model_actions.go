package model

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Resolve applies moves in order, each one seeing the result of the ones
// before it. The input slice is left untouched. errs has one slot per move:
// nil when the move was applied, ErrUnknownRobot or ErrUnknownDirection when
// it was skipped. A skipped move never aborts the batch.
func Resolve(robots []Robot, grid *BoundaryGrid, moves []Move) ([]Robot, []error) {
	out := CloneRobots(robots)
	errs := make([]error, len(moves))
	for i, m := range moves {
		idx := findRobot(out, m.Color)
		if idx < 0 {
			errs[i] = fmt.Errorf("%w: %s", ErrUnknownRobot, m.Color)
			continue
		}
		if !m.Direction.Valid() {
			errs[i] = fmt.Errorf("%w: %s", ErrUnknownDirection, m.Direction)
			continue
		}
		out[idx].Position = stop(out, idx, grid, m.Direction)
	}
	LegalMoves(out, grid)
	return out, errs
}

func findRobot(robots []Robot, c Color) int {
	for i, r := range robots {
		if r.Color == c {
			return i
		}
	}
	return -1
}

// stop returns where robot idx comes to rest sliding in direction d: the
// nearer of the wall bound and the robot bound.
func stop(robots []Robot, idx int, grid *BoundaryGrid, d Direction) Position {
	p := robots[idx].Position
	v := d.vector()
	best := wallStop(grid, p, v)
	bestDist := along(p, best, v)

	for i, o := range robots {
		if i == idx {
			continue
		}
		dist := along(p, o.Position, v)
		if dist <= 0 || !sameLine(p, o.Position, v) {
			continue
		}
		if dist-1 < bestDist {
			bestDist = dist - 1
			best = Position{X: o.Position.X - v.dx, Y: o.Position.Y - v.dy}
		}
	}
	return best
}

func wallStop(grid *BoundaryGrid, p Position, v vector) Position {
	fx, fy := p.Fine()
	for !grid.Wall(fx+v.dx, fy+v.dy) {
		fx += v.dx
		fy += v.dy
	}
	// a blocked cell center leaves us on a wall line; back off to the cell
	if fx%2 == 0 || fy%2 == 0 {
		fx -= v.dx
		fy -= v.dy
	}
	return Position{X: (fx - 1) / 2, Y: (fy - 1) / 2}
}

// along is the signed distance from a to b in direction v.
func along(a, b Position, v vector) int {
	return (b.X-a.X)*v.dx + (b.Y-a.Y)*v.dy
}

func sameLine(a, b Position, v vector) bool {
	if v.dx != 0 {
		return a.Y == b.Y
	}
	return a.X == b.X
}

// LegalMoves recomputes every robot's move set: a direction is legal when
// neither a wall nor a robot sits right next to it that way.
func LegalMoves(robots []Robot, grid *BoundaryGrid) {
	occupied := mapset.New[Position]()
	for _, r := range robots {
		occupied.Put(r.Position)
	}
	for i := range robots {
		p := robots[i].Position
		moves := make([]Direction, 0, len(Directions))
		for _, d := range Directions {
			if grid.Between(p, d) || occupied.Has(p.Add(d)) {
				continue
			}
			moves = append(moves, d)
		}
		robots[i].Moves = moves
	}
}
