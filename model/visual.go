package model

// Visual cell bits.
const (
	North = 1
	East  = 2
	South = 4
	West  = 8

	CornerNE = 16
	CornerSE = 32
	CornerSW = 64
	CornerNW = 128
)

// VisualGrid holds one code per logical cell, indexed [y][x].
type VisualGrid [Size][Size]int

var centerSentinels = map[Position]int{
	{7, 7}: 256,
	{8, 7}: 257,
	{7, 8}: 258,
	{8, 8}: 259,
}

// IsCenter reports whether p is one of the four center target cells.
func IsCenter(p Position) bool {
	_, ok := centerSentinels[p]
	return ok
}

var visualNeighbours = []struct {
	dx, dy int
	bit    int
}{
	{0, -1, North},
	{1, 0, East},
	{0, 1, South},
	{-1, 0, West},
	{1, -1, CornerNE},
	{1, 1, CornerSE},
	{-1, 1, CornerSW},
	{-1, -1, CornerNW},
}

// Encode derives the visual grid from the wall grid.
func Encode(g *BoundaryGrid) VisualGrid {
	var v VisualGrid
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			p := Position{X: x, Y: y}
			if s, ok := centerSentinels[p]; ok {
				v[y][x] = s
				continue
			}
			fx, fy := p.Fine()
			code := 0
			for _, n := range visualNeighbours {
				if g.Wall(fx+n.dx, fy+n.dy) {
					code |= n.bit
				}
			}
			v[y][x] = code
		}
	}
	return v
}

// Rows returns the grid as nested slices for the wire.
func (v VisualGrid) Rows() [][]int {
	rows := make([][]int, Size)
	for y := range v {
		rows[y] = append([]int(nil), v[y][:]...)
	}
	return rows
}
