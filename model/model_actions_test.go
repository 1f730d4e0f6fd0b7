package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func robot(c Color, x, y int) Robot {
	return Robot{Color: c, Position: Position{X: x, Y: y}, Moves: append([]Direction(nil), Directions...)}
}

func positionOf(t *testing.T, robots []Robot, c Color) Position {
	t.Helper()
	idx := findRobot(robots, c)
	require.GreaterOrEqual(t, idx, 0, "no %s robot", c)
	return robots[idx].Position
}

func TestResolveOpenEdges(t *testing.T) {
	grid := NewBoundaryGrid()
	tests := []struct {
		name  string
		start Position
		dir   Direction
		want  Position
	}{
		{"right", Position{0, 0}, Right, Position{15, 0}},
		{"left", Position{9, 4}, Left, Position{0, 4}},
		{"up", Position{3, 12}, Up, Position{3, 0}},
		{"down", Position{3, 2}, Down, Position{3, 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			robots := []Robot{robot(Red, tt.start.X, tt.start.Y)}
			out, errs := Resolve(robots, grid, []Move{{Red, tt.dir}})
			assert.NoError(t, errs[0])
			assert.Equal(t, tt.want, positionOf(t, out, Red))
		})
	}
}

func TestResolveStopsBeforeRobot(t *testing.T) {
	robots := []Robot{robot(Red, 2, 3), robot(Blue, 9, 3)}
	out, _ := Resolve(robots, NewBoundaryGrid(), []Move{{Red, Right}})

	assert.Equal(t, Position{8, 3}, positionOf(t, out, Red))
	assert.Equal(t, Position{9, 3}, positionOf(t, out, Blue))
}

func TestResolveIgnoresRobotsOffLine(t *testing.T) {
	robots := []Robot{robot(Red, 2, 3), robot(Blue, 9, 4), robot(Green, 1, 3)}
	out, _ := Resolve(robots, NewBoundaryGrid(), []Move{{Red, Right}})

	assert.Equal(t, Position{15, 3}, positionOf(t, out, Red))
}

func TestResolveWallBound(t *testing.T) {
	grid := NewBoundaryGrid()
	// east side of (4,4)
	grid.SetWall(10, 9)

	out, _ := Resolve([]Robot{robot(Red, 0, 4)}, grid, []Move{{Red, Right}})
	assert.Equal(t, Position{4, 4}, positionOf(t, out, Red))

	out, _ = Resolve([]Robot{robot(Red, 12, 4)}, grid, []Move{{Red, Left}})
	assert.Equal(t, Position{5, 4}, positionOf(t, out, Red))
}

func TestResolveNearerBoundWins(t *testing.T) {
	grid := NewBoundaryGrid()
	grid.SetWall(10, 9)

	// wall before robot
	out, _ := Resolve([]Robot{robot(Red, 0, 4), robot(Blue, 8, 4)}, grid, []Move{{Red, Right}})
	assert.Equal(t, Position{4, 4}, positionOf(t, out, Red))

	// robot before wall
	out, _ = Resolve([]Robot{robot(Red, 0, 4), robot(Blue, 3, 4)}, grid, []Move{{Red, Right}})
	assert.Equal(t, Position{2, 4}, positionOf(t, out, Red))
}

func TestResolveAgainstAdjacentWallStays(t *testing.T) {
	grid := NewBoundaryGrid()
	grid.SetWall(10, 9)

	out, errs := Resolve([]Robot{robot(Red, 4, 4)}, grid, []Move{{Red, Right}})
	assert.NoError(t, errs[0])
	assert.Equal(t, Position{4, 4}, positionOf(t, out, Red))

	out, _ = Resolve([]Robot{robot(Red, 0, 0)}, grid, []Move{{Red, Up}, {Red, Left}})
	assert.Equal(t, Position{0, 0}, positionOf(t, out, Red))
}

func TestResolveBlockedCellCenter(t *testing.T) {
	grid := NewBoundaryGrid()
	for fx := centerLow; fx <= centerHigh; fx++ {
		for fy := centerLow; fy <= centerHigh; fy++ {
			grid.SetWall(fx, fy)
		}
	}
	// a lone blocked cell (2,0)
	grid.SetWall(5, 1)

	out, _ := Resolve([]Robot{robot(Red, 7, 0)}, grid, []Move{{Red, Down}})
	assert.Equal(t, Position{7, 6}, positionOf(t, out, Red))

	out, _ = Resolve([]Robot{robot(Red, 0, 0)}, grid, []Move{{Red, Right}})
	assert.Equal(t, Position{1, 0}, positionOf(t, out, Red))

	out, _ = Resolve([]Robot{robot(Red, 4, 0)}, grid, []Move{{Red, Left}})
	assert.Equal(t, Position{3, 0}, positionOf(t, out, Red))
}

func TestResolveSequentialBatch(t *testing.T) {
	robots := []Robot{robot(Red, 0, 3), robot(Blue, 9, 3)}
	out, _ := Resolve(robots, NewBoundaryGrid(), []Move{{Blue, Left}, {Red, Right}})

	assert.Equal(t, Position{1, 3}, positionOf(t, out, Blue))
	assert.Equal(t, Position{0, 3}, positionOf(t, out, Red))

	// input untouched
	assert.Equal(t, Position{0, 3}, robots[0].Position)
	assert.Equal(t, Position{9, 3}, robots[1].Position)
}

func TestResolveSkipsBadMoves(t *testing.T) {
	robots := []Robot{robot(Red, 0, 0), robot(Blue, 5, 5)}
	out, errs := Resolve(robots, NewBoundaryGrid(), []Move{
		{Silver, Right},
		{Red, Direction(9)},
		{Red, Down},
	})

	require.Len(t, errs, 3)
	assert.ErrorIs(t, errs[0], ErrUnknownRobot)
	assert.ErrorIs(t, errs[1], ErrUnknownDirection)
	assert.NoError(t, errs[2])
	assert.Equal(t, Position{0, 15}, positionOf(t, out, Red))
}

func TestLegalMoves(t *testing.T) {
	grid := NewBoundaryGrid()
	// south side of (0,0)
	grid.SetWall(1, 2)
	robots := []Robot{robot(Red, 0, 0), robot(Blue, 1, 0), robot(Green, 6, 6)}

	LegalMoves(robots, grid)

	assert.Empty(t, robots[0].Moves)
	assert.Equal(t, []Direction{Down, Right}, robots[1].Moves)
	assert.Equal(t, Directions, robots[2].Moves)
}

func TestResolveRecomputesLegalMoves(t *testing.T) {
	out, _ := Resolve([]Robot{robot(Red, 4, 4)}, NewBoundaryGrid(), []Move{{Red, Up}})
	assert.Equal(t, []Direction{Down, Left, Right}, out[0].Moves)
}
