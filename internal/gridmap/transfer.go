package gridmap

import (
	"fmt"
	"math"
)

// Op combines a destination value with a source value.
type Op int

const (
	// OpCopy overwrites the destination with the source.
	OpCopy Op = iota
	// OpMax keeps the larger of destination and source.
	OpMax
)

func (op Op) String() string {
	switch op {
	case OpCopy:
		return "copy"
	case OpMax:
		return "max"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

func (op Op) apply(to, from float64) float64 {
	if op == OpMax && to > from {
		return to
	}
	return from
}

// Mapping selects how a destination cell finds its source cell.
type Mapping int

const (
	// MappingIdentity pairs cells with equal indices. Both grids must have
	// the same size; they may be the same grid.
	MappingIdentity Mapping = iota
	// MappingPosition looks up the source cell containing each destination
	// cell's center.
	MappingPosition
	// MappingOffset adds a fixed index translation computed once from the
	// grids' geometry. Both grids must share resolution and cell lattice.
	MappingOffset
)

func (m Mapping) String() string {
	switch m {
	case MappingIdentity:
		return "identity"
	case MappingPosition:
		return "position"
	case MappingOffset:
		return "offset"
	}
	return fmt.Sprintf("Mapping(%d)", int(m))
}

// Access selects how layer storage is reached inside the sweep.
type Access int

const (
	// AccessNamed resolves layers by name for every cell.
	AccessNamed Access = iota
	// AccessIndex caches layer views and addresses them by (row, col).
	AccessIndex
	// AccessLinear caches layer views and addresses them by linear index.
	AccessLinear
	// AccessNested uses plain nested row/col loops instead of an Iterator.
	AccessNested
	// AccessFlat loops over the raw backing slices. Identity mapping only.
	AccessFlat
	// AccessBulk hands the whole layer to gonum. Identity mapping only.
	AccessBulk
)

func (a Access) String() string {
	switch a {
	case AccessNamed:
		return "named"
	case AccessIndex:
		return "index"
	case AccessLinear:
		return "linear"
	case AccessNested:
		return "nested"
	case AccessFlat:
		return "flat"
	case AccessBulk:
		return "bulk"
	}
	return fmt.Sprintf("Access(%d)", int(a))
}

// TransferOptions configures Transfer.
type TransferOptions struct {
	Op      Op
	Mapping Mapping
	Access  Access
}

func (o TransferOptions) String() string {
	return fmt.Sprintf("%s/%s/%s", o.Op, o.Mapping, o.Access)
}

// Validate checks that the options name a supported combination.
func (o TransferOptions) Validate() error {
	if o.Op < OpCopy || o.Op > OpMax {
		return fmt.Errorf("%w: %s", ErrUnsupported, o.Op)
	}
	if o.Mapping < MappingIdentity || o.Mapping > MappingOffset {
		return fmt.Errorf("%w: %s", ErrUnsupported, o.Mapping)
	}
	if o.Access < AccessNamed || o.Access > AccessBulk {
		return fmt.Errorf("%w: %s", ErrUnsupported, o.Access)
	}
	if (o.Access == AccessFlat || o.Access == AccessBulk) && o.Mapping != MappingIdentity {
		return fmt.Errorf("%w: %s access needs identity mapping, got %s", ErrUnsupported, o.Access, o.Mapping)
	}
	return nil
}

// TransferStats counts the cells a Transfer visited.
type TransferStats struct {
	// Cells is the number of destination cells visited.
	Cells int
	// Missed is the number of destination cells whose center was outside
	// the source grid. Those cells are left unchanged.
	Missed int
}

// Transferred returns the number of destination cells that received a
// source value.
func (s TransferStats) Transferred() int { return s.Cells - s.Missed }

// Transfer combines srcLayer of src into dstLayer of dst, cell by cell.
// Structural problems are reported before any cell is written. Under
// MappingPosition a destination cell outside src is counted in
// TransferStats.Missed and the sweep continues.
func Transfer(dst *Grid, dstLayer string, src *Grid, srcLayer string, opts TransferOptions) (TransferStats, error) {
	if err := opts.Validate(); err != nil {
		return TransferStats{}, err
	}
	to, err := dst.Layer(dstLayer)
	if err != nil {
		return TransferStats{}, fmt.Errorf("destination: %w", err)
	}
	from, err := src.Layer(srcLayer)
	if err != nil {
		return TransferStats{}, fmt.Errorf("source: %w", err)
	}

	t := transfer{dst: dst, src: src, dstLayer: dstLayer, srcLayer: srcLayer, to: to, from: from, op: opts.Op}
	switch opts.Mapping {
	case MappingIdentity:
		if dst.Size() != src.Size() {
			return TransferStats{}, fmt.Errorf("%w: identity mapping between %s and %s grids", ErrInvalidGeometry, dst.Size(), src.Size())
		}
		return t.identity(opts.Access)
	case MappingPosition:
		return t.byPosition(opts.Access)
	default:
		offset, err := OffsetBetween(dst, src)
		if err != nil {
			return TransferStats{}, err
		}
		return t.byOffset(opts.Access, offset)
	}
}

type transfer struct {
	dst, src           *Grid
	dstLayer, srcLayer string
	to, from           *Layer
	op                 Op
}

func (t *transfer) identity(access Access) (TransferStats, error) {
	stats := TransferStats{Cells: t.dst.Size().Cells()}
	op := t.op
	switch access {
	case AccessNamed:
		for it := t.dst.Iterator(); it.Next(); {
			index := it.Index()
			from, err := t.src.At(t.srcLayer, index)
			if err != nil {
				return stats, err
			}
			to, err := t.dst.At(t.dstLayer, index)
			if err != nil {
				return stats, err
			}
			if err := t.dst.Set(t.dstLayer, index, op.apply(to, from)); err != nil {
				return stats, err
			}
		}
	case AccessIndex:
		for it := t.dst.Iterator(); it.Next(); {
			index := it.Index()
			t.to.Set(index.Row, index.Col, op.apply(t.to.At(index.Row, index.Col), t.from.At(index.Row, index.Col)))
		}
	case AccessLinear:
		for it := t.dst.Iterator(); it.Next(); {
			k := it.Linear()
			t.to.SetLinear(k, op.apply(t.to.AtLinear(k), t.from.AtLinear(k)))
		}
	case AccessNested:
		rows, cols := t.to.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				t.to.Set(i, j, op.apply(t.to.At(i, j), t.from.At(i, j)))
			}
		}
	case AccessFlat:
		to, from := t.to.Data(), t.from.Data()
		for k := range to {
			to[k] = op.apply(to[k], from[k])
		}
	case AccessBulk:
		dense, src := t.to.Dense(), t.from.Dense()
		if op == OpCopy {
			dense.Copy(src)
			break
		}
		dense.Apply(func(i, j int, v float64) float64 {
			return op.apply(v, src.At(i, j))
		}, dense)
	}
	return stats, nil
}

func (t *transfer) byPosition(access Access) (TransferStats, error) {
	stats := TransferStats{Cells: t.dst.Size().Cells()}
	op := t.op
	switch access {
	case AccessNamed:
		for it := t.dst.Iterator(); it.Next(); {
			index := it.Index()
			from, ok, err := t.src.AtPosition(t.srcLayer, t.dst.Position(index))
			if err != nil {
				return stats, err
			}
			if !ok {
				stats.Missed++
				continue
			}
			to, err := t.dst.At(t.dstLayer, index)
			if err != nil {
				return stats, err
			}
			if err := t.dst.Set(t.dstLayer, index, op.apply(to, from)); err != nil {
				return stats, err
			}
		}
	case AccessIndex:
		for it := t.dst.Iterator(); it.Next(); {
			index := it.Index()
			s, ok := t.src.Index(t.dst.Position(index))
			if !ok {
				stats.Missed++
				continue
			}
			t.to.Set(index.Row, index.Col, op.apply(t.to.At(index.Row, index.Col), t.from.At(s.Row, s.Col)))
		}
	case AccessLinear:
		for it := t.dst.Iterator(); it.Next(); {
			k := it.Linear()
			s, ok := t.src.Index(t.dst.Position(it.Index()))
			if !ok {
				stats.Missed++
				continue
			}
			t.to.SetLinear(k, op.apply(t.to.AtLinear(k), t.from.At(s.Row, s.Col)))
		}
	case AccessNested:
		rows, cols := t.to.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				s, ok := t.src.Index(t.dst.Position(Index{Row: i, Col: j}))
				if !ok {
					stats.Missed++
					continue
				}
				t.to.Set(i, j, op.apply(t.to.At(i, j), t.from.At(s.Row, s.Col)))
			}
		}
	}
	return stats, nil
}

func (t *transfer) byOffset(access Access, offset Index) (TransferStats, error) {
	stats := TransferStats{Cells: t.dst.Size().Cells()}
	op := t.op
	switch access {
	case AccessNamed:
		for it := t.dst.Iterator(); it.Next(); {
			index := it.Index()
			from, err := t.src.At(t.srcLayer, index.Add(offset))
			if err != nil {
				return stats, err
			}
			to, err := t.dst.At(t.dstLayer, index)
			if err != nil {
				return stats, err
			}
			if err := t.dst.Set(t.dstLayer, index, op.apply(to, from)); err != nil {
				return stats, err
			}
		}
	case AccessIndex:
		for it := t.dst.Iterator(); it.Next(); {
			index := it.Index()
			t.to.Set(index.Row, index.Col, op.apply(t.to.At(index.Row, index.Col), t.from.At(index.Row+offset.Row, index.Col+offset.Col)))
		}
	case AccessLinear:
		for it := t.dst.Iterator(); it.Next(); {
			k, index := it.Linear(), it.Index()
			t.to.SetLinear(k, op.apply(t.to.AtLinear(k), t.from.At(index.Row+offset.Row, index.Col+offset.Col)))
		}
	case AccessNested:
		rows, cols := t.to.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				t.to.Set(i, j, op.apply(t.to.At(i, j), t.from.At(i+offset.Row, j+offset.Col)))
			}
		}
	}
	return stats, nil
}

// alignTolerance is the largest fraction of a cell by which two lattices
// may disagree and still count as aligned.
const alignTolerance = 1e-6

// OffsetBetween returns the index translation that maps every dst cell onto
// the src cell with the same center: src index = dst index + offset.
// It fails with ErrMisaligned when the grids differ in resolution or their
// cell centers are not an integer number of cells apart, and with
// ErrOutsideExtent when dst is not fully covered by src.
func OffsetBetween(dst, src *Grid) (Index, error) {
	if !dst.Initialized() || !src.Initialized() {
		return Index{}, ErrUninitializedGrid
	}
	if math.Abs(dst.Resolution()-src.Resolution()) > alignTolerance*src.Resolution() {
		return Index{}, fmt.Errorf("%w: resolution %g vs %g", ErrMisaligned, dst.Resolution(), src.Resolution())
	}

	first := dst.Position(Index{})
	dx, dy := src.cornerOffset(first)
	rowF := dx/src.Resolution() - 0.5
	colF := dy/src.Resolution() - 0.5
	row, col := math.Round(rowF), math.Round(colF)
	if math.Abs(rowF-row) > alignTolerance || math.Abs(colF-col) > alignTolerance {
		return Index{}, fmt.Errorf("%w: cell centers offset by (%g, %g) cells", ErrMisaligned, rowF, colF)
	}

	offset := Index{Row: int(row), Col: int(col)}
	last := Index{Row: dst.Size().Rows - 1, Col: dst.Size().Cols - 1}
	if !src.IsValidIndex(offset) || !src.IsValidIndex(last.Add(offset)) {
		return Index{}, fmt.Errorf("%w: %s grid at %s not covered by source %s grid at %s",
			ErrOutsideExtent, dst.Size(), dst.Origin(), src.Size(), src.Origin())
	}
	return offset, nil
}
