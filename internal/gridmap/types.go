package gridmap

import "fmt"

// Index addresses one cell by row and column.
type Index struct {
	Row int
	Col int
}

func (i Index) String() string {
	return fmt.Sprintf("(%d, %d)", i.Row, i.Col)
}

// Add returns the component-wise sum of two indices.
func (i Index) Add(o Index) Index {
	return Index{Row: i.Row + o.Row, Col: i.Col + o.Col}
}

// Position is a point in the grid's physical frame.
type Position struct {
	X float64
	Y float64
}

func (p Position) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Length is the physical extent of a grid along X (rows) and Y (cols).
type Length struct {
	X float64
	Y float64
}

// Size is the number of cells along each axis.
type Size struct {
	Rows int
	Cols int
}

// Cells returns Rows*Cols.
func (s Size) Cells() int {
	return s.Rows * s.Cols
}

func (s Size) String() string {
	return fmt.Sprintf("%d x %d", s.Rows, s.Cols)
}
