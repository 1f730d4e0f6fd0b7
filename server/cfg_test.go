package server

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/robots/model"
)

// boardText draws a fixture: marks are keyed by text column and line.
func boardText(marks map[[2]int]byte) string {
	lines := make([][]byte, fixtureSize)
	for r := range lines {
		lines[r] = []byte(strings.Repeat(" ", fixtureSize))
	}
	for at, char := range marks {
		lines[at[1]][at[0]] = char
	}
	out := make([]string, len(lines))
	for r, l := range lines {
		out[r] = strings.TrimRight(string(l), " ")
	}
	return strings.Join(out, "\n") + "\n"
}

func TestReadBoard(t *testing.T) {
	text := boardText(map[[2]int]byte{
		{0, 0}:   'r',
		{11, 0}:  '|', // east side of (5,0)
		{4, 6}:   'b',
		{4, 7}:   '-', // south side of (2,3)
		{30, 30}: 'P',
		{8, 2}:   'A',
	})

	b, err := ReadBoard(strings.NewReader(text))
	require.NoError(t, err)

	assert.True(t, b.Grid.Between(model.Position{X: 5, Y: 0}, model.Right))
	assert.True(t, b.Grid.Between(model.Position{X: 6, Y: 0}, model.Left))
	assert.True(t, b.Grid.Between(model.Position{X: 2, Y: 3}, model.Down))
	assert.False(t, b.Grid.Between(model.Position{X: 2, Y: 3}, model.Up))

	require.Len(t, b.Robots, 2)
	assert.Equal(t, model.Robot{Color: model.Red, Position: model.Position{X: 0, Y: 0}}, b.Robots[0])
	assert.Equal(t, model.Robot{Color: model.Blue, Position: model.Position{X: 2, Y: 3}}, b.Robots[1])

	require.Len(t, b.Goals, 2)
	assert.Equal(t, model.Goal{Position: model.Position{X: 4, Y: 1}, Symbol: 0}, b.Goals[0])
	assert.Equal(t, model.Goal{Position: model.Position{X: 15, Y: 15}, Symbol: 15}, b.Goals[1])
}

func TestReadBoardErrors(t *testing.T) {
	_, err := ReadBoard(strings.NewReader("r\n"))
	assert.ErrorIs(t, err, ErrBoardSize)

	long := boardText(nil) + strings.Repeat("-", 5) + "\n"
	_, err = ReadBoard(strings.NewReader(long))
	assert.ErrorIs(t, err, ErrBoardSize)

	wide := strings.Repeat("|", fixtureSize+1) + "\n" + boardText(nil)
	_, err = ReadBoard(strings.NewReader(wide))
	assert.ErrorIs(t, err, ErrBoardSize)

	dup := boardText(map[[2]int]byte{{0, 0}: 'r', {2, 0}: 'r'})
	_, err = ReadBoard(strings.NewReader(dup))
	assert.Error(t, err)
}

func TestFixtureMovement(t *testing.T) {
	text := boardText(map[[2]int]byte{
		{0, 0}:  'r',
		{11, 0}: '|',
		{4, 6}:  'g',
		{18, 6}: 'b',
	})
	b, err := ReadBoard(strings.NewReader(text))
	require.NoError(t, err)

	out, _ := model.Resolve(b.Robots, b.Grid, []model.Move{{Color: model.Red, Direction: model.Right}})
	assert.Equal(t, model.Position{X: 5, Y: 0}, out[0].Position)

	out, _ = model.Resolve(b.Robots, b.Grid, []model.Move{{Color: model.Green, Direction: model.Right}})
	assert.Equal(t, model.Position{X: 8, Y: 3}, out[1].Position)
}

func TestFixtureBoard(t *testing.T) {
	text := boardText(map[[2]int]byte{
		{0, 0}: 'y',
		{2, 2}: 'C',
		{6, 8}: 'D',
	})
	path := filepath.Join(t.TempDir(), "board.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	fixture, err := LoadBoard(path)
	require.NoError(t, err)

	board, robots, err := fixture.Board(rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	active := 0
	for _, g := range board.Goals {
		if g.Active {
			active++
		}
	}
	assert.Equal(t, 1, active)
	require.Len(t, robots, 1)
	assert.Equal(t, model.Directions, robots[0].Moves)
	assert.Equal(t, model.Encode(fixture.Grid), board.Visual)

	// the fixture itself stays inactive
	for _, g := range fixture.Goals {
		assert.False(t, g.Active)
	}

	_, err = LoadBoard(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
