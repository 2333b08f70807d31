package gridmap

import (
	"fmt"
	"math"
)

// Move recentres the grid on position, snapped to a whole number of cells
// so existing cell boundaries stay put. Cells present before and after the
// move keep their values; newly exposed cells get each layer's fill value.
// It returns the index shift applied to cell contents: the value that was at
// index i is now at i.Add(shift).
func (g *Grid) Move(position Position) (shift Index, err error) {
	if !g.Initialized() {
		return Index{}, fmt.Errorf("%w: cannot move", ErrUninitializedGrid)
	}
	if !isFinite(position.X) || !isFinite(position.Y) {
		return Index{}, fmt.Errorf("%w: cannot move to %s", ErrInvalidGeometry, position)
	}
	cellsX := math.Round((position.X - g.origin.X) / g.resolution)
	cellsY := math.Round((position.Y - g.origin.Y) / g.resolution)
	if cellsX == 0 && cellsY == 0 {
		return Index{}, nil
	}
	// Rows grow towards -X, so moving the origin by +n cells moves content
	// by +n rows.
	shift = Index{Row: int(cellsX), Col: int(cellsY)}
	g.origin = Position{
		X: g.origin.X + cellsX*g.resolution,
		Y: g.origin.Y + cellsY*g.resolution,
	}
	for _, name := range g.order {
		g.layers[name].shift(g.size, shift)
	}
	return shift, nil
}

// shift moves the layer contents by s cells, filling vacated cells.
func (l *Layer) shift(size Size, s Index) {
	old := l.raw
	l.reset(size)

	// Destination column span that has a source column.
	j0, j1 := max(0, s.Col), min(size.Cols, size.Cols+s.Col)
	if j0 >= j1 {
		return
	}
	for i := 0; i < size.Rows; i++ {
		src := i - s.Row
		if src < 0 || src >= size.Rows {
			continue
		}
		copy(l.raw[i*size.Cols+j0:i*size.Cols+j1], old[src*size.Cols+j0-s.Col:src*size.Cols+j1-s.Col])
	}
}
