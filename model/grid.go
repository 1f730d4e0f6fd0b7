package model

// BoundaryGrid is the wall grid in fine coordinates, indexed [fx][fy].
// Logical cell (x, y) sits at (2x+1, 2y+1), even indexes are wall lines.
type BoundaryGrid struct {
	cells [FineSize][FineSize]bool
}

// NewBoundaryGrid returns an open grid walled on its outer ring.
func NewBoundaryGrid() *BoundaryGrid {
	g := &BoundaryGrid{}
	for i := 0; i < FineSize; i++ {
		g.cells[i][0] = true
		g.cells[i][FineSize-1] = true
		g.cells[0][i] = true
		g.cells[FineSize-1][i] = true
	}
	return g
}

func inFine(fx, fy int) bool {
	return fx >= 0 && fx < FineSize && fy >= 0 && fy < FineSize
}

// Wall reports whether fine cell (fx, fy) is blocked. Anything outside the
// grid counts as a wall.
func (g *BoundaryGrid) Wall(fx, fy int) bool {
	if !inFine(fx, fy) {
		return true
	}
	return g.cells[fx][fy]
}

// SetWall blocks (fx, fy). Setting a walled cell again is a no-op.
func (g *BoundaryGrid) SetWall(fx, fy int) {
	if !inFine(fx, fy) {
		return
	}
	g.cells[fx][fy] = true
}

// Between reports the wall state between p and its neighbour in direction d.
func (g *BoundaryGrid) Between(p Position, d Direction) bool {
	fx, fy := p.Fine()
	v := d.vector()
	return g.Wall(fx+v.dx, fy+v.dy)
}

func (g *BoundaryGrid) Clone() *BoundaryGrid {
	c := *g
	return &c
}
