package gridmap

import (
	"gonum.org/v1/gonum/mat"
)

// Layer is one named value plane of a Grid. It is owned by the grid and its
// storage is replaced by SetGeometry and Move; fetch it again after either.
type Layer struct {
	name      string
	fillValue float64
	data      *mat.Dense
	raw       []float64
	cols      int
}

func newLayer(name string, size Size, fillValue float64) *Layer {
	l := &Layer{name: name, fillValue: fillValue}
	l.reset(size)
	return l
}

// reset reallocates the layer to size and fills it with the fill value.
func (l *Layer) reset(size Size) {
	l.adopt(mat.NewDense(size.Rows, size.Cols, nil))
	l.Fill(l.fillValue)
}

func (l *Layer) adopt(m *mat.Dense) {
	l.data = m
	raw := m.RawMatrix()
	l.raw = raw.Data
	l.cols = raw.Stride
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// FillValue returns the value new cells of this layer are set to.
func (l *Layer) FillValue() float64 { return l.fillValue }

// Dims returns the number of rows and columns.
func (l *Layer) Dims() (rows, cols int) { return l.data.Dims() }

// At returns the value of cell (i, j). It panics when out of range, like
// the mat.Dense it wraps.
func (l *Layer) At(i, j int) float64 { return l.raw[i*l.cols+j] }

// Set stores v in cell (i, j).
func (l *Layer) Set(i, j int, v float64) { l.raw[i*l.cols+j] = v }

// AtLinear returns the value at row-major linear index k.
func (l *Layer) AtLinear(k int) float64 { return l.raw[k] }

// SetLinear stores v at row-major linear index k.
func (l *Layer) SetLinear(k int, v float64) { l.raw[k] = v }

// Data returns the row-major backing slice. Writes through it are visible
// in the layer.
func (l *Layer) Data() []float64 { return l.raw }

// Dense returns the backing matrix for whole-layer gonum operations.
func (l *Layer) Dense() *mat.Dense { return l.data }

// Fill sets every cell to v.
func (l *Layer) Fill(v float64) {
	for k := range l.raw {
		l.raw[k] = v
	}
}
