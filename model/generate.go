package model

import (
	"errors"
	"fmt"
	"math/rand"
)

var ErrGenerationExhausted = errors.New("board generation exhausted")

const (
	// maxAttempts caps every rejection-sampling loop.
	maxAttempts = 50
	// maxBoardAttempts caps whole-board retries after a zone fails.
	maxBoardAttempts = 10
	// minAnchorDist2 is the largest rejected squared fine distance between anchors.
	minAnchorDist2 = 16

	centerLow  = 14
	centerHigh = 18
)

// FinePoint is a coordinate in the fine grid.
type FinePoint struct {
	X, Y int
}

func (a FinePoint) dist2(b FinePoint) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// Cluster is an L-shaped wall group: the anchor plus two arms at a right
// angle. Rotation is in quarter turns.
type Cluster struct {
	Anchor   FinePoint
	Rotation int
}

var clusterArms = [4][2]Direction{
	{Right, Down},
	{Down, Left},
	{Left, Up},
	{Up, Right},
}

// Cells returns the three fine cells of the cluster.
func (c Cluster) Cells() []FinePoint {
	cells := []FinePoint{c.Anchor}
	for _, d := range clusterArms[c.Rotation%4] {
		v := d.vector()
		cells = append(cells, FinePoint{c.Anchor.X + v.dx, c.Anchor.Y + v.dy})
	}
	return cells
}

// Goal returns the logical cell enclosed by the L.
func (c Cluster) Goal() Position {
	fx, fy := c.Anchor.X, c.Anchor.Y
	for _, d := range clusterArms[c.Rotation%4] {
		v := d.vector()
		fx += v.dx
		fy += v.dy
	}
	return Position{X: (fx - 1) / 2, Y: (fy - 1) / 2}
}

type zone struct {
	x0, y0 int
}

// zones is the fixed placement order: quadrants NW, NE, SW, SE, each split
// into four 4x4 sub zones.
var zones = func() []zone {
	out := make([]zone, 0, SymbolCount)
	for _, q := range []zone{{0, 0}, {8, 0}, {0, 8}, {8, 8}} {
		for _, s := range []zone{{0, 0}, {4, 0}, {0, 4}, {4, 4}} {
			out = append(out, zone{q.x0 + s.x0, q.y0 + s.y0})
		}
	}
	return out
}()

func inCenterKeepOut(i, j int) bool {
	return i >= 6 && i <= 10 && j >= 6 && j <= 10
}

func (z zone) anchors() []FinePoint {
	var out []FinePoint
	for i := z.x0 + 1; i <= z.x0+3; i++ {
		for j := z.y0 + 1; j <= z.y0+3; j++ {
			if i < 2 || i > Size-2 || j < 2 || j > Size-2 || inCenterKeepOut(i, j) {
				continue
			}
			out = append(out, FinePoint{2 * i, 2 * j})
		}
	}
	return out
}

// notch candidates along an edge, as wall-line indexes k (fine 2k).
var notchHalves = [2][]int{
	{2, 3, 4, 5, 6},
	{10, 11, 12, 13, 14},
}

// sample draws candidates until accept passes or maxAttempts is spent.
func sample[T any](rng *rand.Rand, candidates []T, accept func(T) bool) (T, bool) {
	var zero T
	if len(candidates) == 0 {
		return zero, false
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		c := candidates[rng.Intn(len(candidates))]
		if accept(c) {
			return c, true
		}
	}
	return zero, false
}

type Generator struct {
	rand *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rand: rng}
}

// Generate produces a new board, retrying the whole layout a bounded number
// of times when a zone runs out of sampling attempts.
func (g *Generator) Generate() (Board, error) {
	var err error
	for attempt := 0; attempt < maxBoardAttempts; attempt++ {
		var b Board
		b, err = g.generateOnce()
		if err == nil {
			return b, nil
		}
	}
	return Board{}, fmt.Errorf("after %d boards: %w", maxBoardAttempts, err)
}

func (g *Generator) generateOnce() (Board, error) {
	grid := NewBoundaryGrid()
	for fx := centerLow; fx <= centerHigh; fx++ {
		for fy := centerLow; fy <= centerHigh; fy++ {
			grid.SetWall(fx, fy)
		}
	}
	g.placeNotches(grid)

	clusters, err := g.placeClusters()
	if err != nil {
		return Board{}, err
	}

	symbols := g.rand.Perm(SymbolCount)
	active := make([]bool, SymbolCount)
	active[0] = true
	g.rand.Shuffle(len(active), func(i, j int) { active[i], active[j] = active[j], active[i] })

	goals := make([]Goal, 0, len(clusters))
	for i, c := range clusters {
		for _, cell := range c.Cells() {
			grid.SetWall(cell.X, cell.Y)
		}
		goals = append(goals, Goal{
			Position: c.Goal(),
			Symbol:   Symbol(symbols[i]),
			Active:   active[i],
		})
	}

	return Board{
		Grid:     grid,
		Visual:   Encode(grid),
		Goals:    goals,
		Clusters: clusters,
	}, nil
}

func (g *Generator) placeNotches(grid *BoundaryGrid) {
	for _, half := range notchHalves {
		top := 2 * half[g.rand.Intn(len(half))]
		grid.SetWall(top, 1)
		bottom := 2 * half[g.rand.Intn(len(half))]
		grid.SetWall(bottom, FineSize-2)
		left := 2 * half[g.rand.Intn(len(half))]
		grid.SetWall(1, left)
		right := 2 * half[g.rand.Intn(len(half))]
		grid.SetWall(FineSize-2, right)
	}
}

func (g *Generator) placeClusters() ([]Cluster, error) {
	accepted := make([]FinePoint, 0, len(zones))
	clusters := make([]Cluster, 0, len(zones))
	for _, z := range zones {
		anchor, ok := sample(g.rand, z.anchors(), func(c FinePoint) bool {
			for _, a := range accepted {
				if c.dist2(a) <= minAnchorDist2 {
					return false
				}
			}
			return true
		})
		if !ok {
			return nil, fmt.Errorf("%w: zone (%d,%d)", ErrGenerationExhausted, z.x0, z.y0)
		}
		accepted = append(accepted, anchor)
		clusters = append(clusters, Cluster{Anchor: anchor, Rotation: g.rand.Intn(4)})
	}
	return clusters, nil
}
