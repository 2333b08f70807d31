package gridmap

import "math"

// IsValidIndex reports whether index lies in [0, rows) x [0, cols).
func (g *Grid) IsValidIndex(index Index) bool {
	return index.Row >= 0 && index.Row < g.size.Rows &&
		index.Col >= 0 && index.Col < g.size.Cols
}

// cornerOffset returns origin + length/2 - p, the distance of p from the
// max-X, max-Y corner measured along the index axes.
func (g *Grid) cornerOffset(p Position) (dx, dy float64) {
	return g.origin.X + 0.5*g.length.X - p.X, g.origin.Y + 0.5*g.length.Y - p.Y
}

// Position returns the center of the cell at index. The index is not
// checked; guard with IsValidIndex where it may be out of range.
func (g *Grid) Position(index Index) Position {
	return Position{
		X: g.origin.X + 0.5*g.length.X - (float64(index.Row)+0.5)*g.resolution,
		Y: g.origin.Y + 0.5*g.length.Y - (float64(index.Col)+0.5)*g.resolution,
	}
}

// IsInside reports whether p lies in the grid. Each axis is half-open,
// excluding the min edge and including the max edge.
func (g *Grid) IsInside(p Position) bool {
	if !g.Initialized() {
		return false
	}
	dx, dy := g.cornerOffset(p)
	return dx >= 0 && dx < g.length.X && dy >= 0 && dy < g.length.Y
}

// Index returns the cell containing p. ok is false when p is outside the
// grid.
func (g *Grid) Index(p Position) (index Index, ok bool) {
	if !g.IsInside(p) {
		return Index{}, false
	}
	dx, dy := g.cornerOffset(p)
	return Index{
		Row: clampIndex(int(math.Floor(dx/g.resolution)), g.size.Rows),
		Col: clampIndex(int(math.Floor(dy/g.resolution)), g.size.Cols),
	}, true
}

// clampIndex keeps a floored offset inside [0, n) when floating point
// error pushes a boundary position onto the neighbouring cell.
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// LinearIndex returns the row-major linear index of index.
func (g *Grid) LinearIndex(index Index) int {
	return index.Row*g.size.Cols + index.Col
}

// IndexFromLinear is the inverse of LinearIndex.
func (g *Grid) IndexFromLinear(k int) Index {
	return Index{Row: k / g.size.Cols, Col: k % g.size.Cols}
}

// Bounds returns the min and max corners of the grid's physical extent.
func (g *Grid) Bounds() (lo, hi Position) {
	lo = Position{X: g.origin.X - 0.5*g.length.X, Y: g.origin.Y - 0.5*g.length.Y}
	hi = Position{X: g.origin.X + 0.5*g.length.X, Y: g.origin.Y + 0.5*g.length.Y}
	return lo, hi
}
