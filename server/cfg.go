package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/robots/model"
)

var ErrBoardSize = errors.New("board fixture must be 31 lines of at most 31 characters")

const fixtureSize = model.FineSize - 2

// FixtureBoard is a fixed layout read from a text file.
type FixtureBoard struct {
	Grid   *model.BoundaryGrid
	Goals  []model.Goal
	Robots []model.Robot
}

func LoadBoard(path string) (*FixtureBoard, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open board %s: %w", path, err)
	}
	defer file.Close()
	b, err := ReadBoard(file)
	if err != nil {
		return nil, fmt.Errorf("read board %s: %w", path, err)
	}
	log.Infof("loaded board %s: %d goals, %d robots", path, len(b.Goals), len(b.Robots))
	return b, nil
}

// ReadBoard parses the text layout. Character (i, r) is fine cell
// (i+1, r+1), so the outer ring is implied. Even (i, r) are cells: r g b y s
// place robots and A-P place goals. Everything else on odd rows or columns
// is a wall line: '|', '-', '+' and '#' wall it, anything else leaves it open.
func ReadBoard(reader io.Reader) (*FixtureBoard, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	b := &FixtureBoard{Grid: model.NewBoundaryGrid()}
	seen := make(map[model.Color]bool)
	row := 0

	for scanner.Scan() {
		s := scanner.Text()
		if row >= fixtureSize {
			if s == "" {
				continue
			}
			return nil, ErrBoardSize
		}
		if len(s) > fixtureSize {
			return nil, fmt.Errorf("line %d: %w", row+1, ErrBoardSize)
		}
		for i := 0; i < len(s); i++ {
			char := s[i]
			fx, fy := i+1, row+1
			switch char {
			case '|', '-', '+', '#':
				b.Grid.SetWall(fx, fy)
				continue
			}
			if i%2 != 0 || row%2 != 0 {
				continue
			}
			// real cell
			pos := model.Position{X: i / 2, Y: row / 2}
			switch {
			case char >= 'A' && char <= 'P':
				b.Goals = append(b.Goals, model.Goal{Position: pos, Symbol: model.Symbol(char - 'A')})
			case char == 'r' || char == 'g' || char == 'b' || char == 'y' || char == 's':
				c := robotGlyphs[char]
				if seen[c] {
					return nil, fmt.Errorf("line %d: duplicate %s robot", row+1, c)
				}
				seen[c] = true
				b.Robots = append(b.Robots, model.Robot{Color: c, Position: pos})
			}
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if row != fixtureSize {
		return nil, fmt.Errorf("got %d lines: %w", row, ErrBoardSize)
	}
	return b, nil
}

var robotGlyphs = map[byte]model.Color{
	'r': model.Red,
	'g': model.Green,
	'b': model.Blue,
	'y': model.Yellow,
	's': model.Silver,
}

// Board returns a copy of the fixture with one goal activated at random.
func (f *FixtureBoard) Board(rng *rand.Rand) (model.Board, []model.Robot, error) {
	grid := f.Grid.Clone()
	goals := append([]model.Goal(nil), f.Goals...)
	if len(goals) > 0 {
		goals[rng.Intn(len(goals))].Active = true
	}
	robots := model.CloneRobots(f.Robots)
	for i := range robots {
		robots[i].Moves = append([]model.Direction(nil), model.Directions...)
	}
	return model.Board{Grid: grid, Visual: model.Encode(grid), Goals: goals}, robots, nil
}
