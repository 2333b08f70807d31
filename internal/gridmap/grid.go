package gridmap

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Grid is a georeferenced raster of equally shaped named layers.
//
// The zero value is an uninitialised grid: layers can only be added after
// SetGeometry.
type Grid struct {
	size       Size
	resolution float64
	length     Length
	origin     Position

	layers map[string]*Layer
	order  []string
}

// NewGrid returns a grid with the given geometry and no layers.
func NewGrid(length Length, resolution float64, origin Position) (*Grid, error) {
	g := &Grid{}
	if err := g.SetGeometry(length, resolution, origin); err != nil {
		return nil, err
	}
	return g, nil
}

// SetGeometry (re)configures the grid. The number of cells per axis is
// length/resolution rounded to the nearest integer and the stored length
// is recomputed from it. Existing layers are reallocated to the new shape
// and reset to their fill values.
func (g *Grid) SetGeometry(length Length, resolution float64, origin Position) error {
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return fmt.Errorf("%w: resolution must be positive, got %g", ErrInvalidGeometry, resolution)
	}
	if !(length.X > 0) || !(length.Y > 0) || math.IsInf(length.X, 0) || math.IsInf(length.Y, 0) {
		return fmt.Errorf("%w: length must be positive, got (%g, %g)", ErrInvalidGeometry, length.X, length.Y)
	}
	if !isFinite(origin.X) || !isFinite(origin.Y) {
		return fmt.Errorf("%w: origin must be finite, got %s", ErrInvalidGeometry, origin)
	}
	size := Size{
		Rows: int(math.Round(length.X / resolution)),
		Cols: int(math.Round(length.Y / resolution)),
	}
	if size.Rows <= 0 || size.Cols <= 0 {
		return fmt.Errorf("%w: length (%g, %g) is less than one cell of %g", ErrInvalidGeometry, length.X, length.Y, resolution)
	}

	g.size = size
	g.resolution = resolution
	g.length = Length{X: float64(size.Rows) * resolution, Y: float64(size.Cols) * resolution}
	g.origin = origin
	for _, name := range g.order {
		g.layers[name].reset(size)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Initialized reports whether SetGeometry has succeeded on g.
func (g *Grid) Initialized() bool { return g.resolution > 0 }

// Size returns the number of rows and columns.
func (g *Grid) Size() Size { return g.size }

// Resolution returns the edge length of one cell.
func (g *Grid) Resolution() float64 { return g.resolution }

// Length returns the physical extent of the grid.
func (g *Grid) Length() Length { return g.length }

// Origin returns the position of the grid's geometric center.
func (g *Grid) Origin() Position { return g.origin }

// AddLayer inserts a layer filled with fillValue.
func (g *Grid) AddLayer(name string, fillValue float64) error {
	if err := g.checkNewLayer(name); err != nil {
		return err
	}
	g.insert(newLayer(name, g.size, fillValue))
	return nil
}

// AddLayerFrom inserts a layer backed by m. The layer's fill value is 0.
// m must have the grid's shape.
func (g *Grid) AddLayerFrom(name string, m *mat.Dense) error {
	if err := g.checkNewLayer(name); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: layer %q has no data", ErrInvalidGeometry, name)
	}
	r, c := m.Dims()
	if r != g.size.Rows || c != g.size.Cols {
		return fmt.Errorf("%w: layer %q is %dx%d, grid is %s", ErrInvalidGeometry, name, r, c, g.size)
	}
	// A view into a larger matrix has stride != cols; copy it so linear
	// indexing stays row-major.
	if m.RawMatrix().Stride != c {
		m = mat.DenseCopyOf(m)
	}
	l := &Layer{name: name}
	l.adopt(m)
	g.insert(l)
	return nil
}

func (g *Grid) checkNewLayer(name string) error {
	if !g.Initialized() {
		return fmt.Errorf("%w: cannot add layer %q", ErrUninitializedGrid, name)
	}
	if _, ok := g.layers[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLayer, name)
	}
	return nil
}

func (g *Grid) insert(l *Layer) {
	if g.layers == nil {
		g.layers = make(map[string]*Layer)
	}
	g.layers[l.name] = l
	g.order = append(g.order, l.name)
}

// RemoveLayer deletes a layer.
func (g *Grid) RemoveLayer(name string) error {
	if _, ok := g.layers[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	delete(g.layers, name)
	for i, n := range g.order {
		if n == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return nil
}

// HasLayer reports whether a layer called name exists.
func (g *Grid) HasLayer(name string) bool {
	_, ok := g.layers[name]
	return ok
}

// Layers returns the layer names in insertion order.
func (g *Grid) Layers() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Layer returns direct access to a layer's storage.
func (g *Grid) Layer(name string) (*Layer, error) {
	l, ok := g.layers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	return l, nil
}

// At returns the value of a layer at index, resolving the layer by name.
func (g *Grid) At(name string, index Index) (float64, error) {
	l, err := g.Layer(name)
	if err != nil {
		return 0, err
	}
	if !g.IsValidIndex(index) {
		return 0, fmt.Errorf("%w: %s in %s grid", ErrOutOfRange, index, g.size)
	}
	return l.At(index.Row, index.Col), nil
}

// Set stores v in a layer at index, resolving the layer by name.
func (g *Grid) Set(name string, index Index, v float64) error {
	l, err := g.Layer(name)
	if err != nil {
		return err
	}
	if !g.IsValidIndex(index) {
		return fmt.Errorf("%w: %s in %s grid", ErrOutOfRange, index, g.size)
	}
	l.Set(index.Row, index.Col, v)
	return nil
}

// AtPosition returns the value of the cell containing position. ok is false
// when position is outside the grid.
func (g *Grid) AtPosition(name string, position Position) (v float64, ok bool, err error) {
	l, err := g.Layer(name)
	if err != nil {
		return 0, false, err
	}
	index, ok := g.Index(position)
	if !ok {
		return 0, false, nil
	}
	return l.At(index.Row, index.Col), true, nil
}
