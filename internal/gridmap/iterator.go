package gridmap

import "iter"

// Iterator walks every cell of a grid once in row-major order. It holds
// only the grid's shape, so layers may be written through cached views
// while iterating.
type Iterator struct {
	size Size
	k    int
	n    int
}

// Iterator returns an iterator positioned before the first cell.
func (g *Grid) Iterator() *Iterator {
	return &Iterator{size: g.size, k: -1, n: g.size.Cells()}
}

// Next advances to the next cell and reports whether there is one.
func (it *Iterator) Next() bool {
	if it.k < it.n {
		it.k++
	}
	return it.k < it.n
}

// Index returns the current cell.
func (it *Iterator) Index() Index {
	return Index{Row: it.k / it.size.Cols, Col: it.k % it.size.Cols}
}

// Linear returns the row-major linear index of the current cell.
func (it *Iterator) Linear() int { return it.k }

// Reset rewinds the iterator to before the first cell.
func (it *Iterator) Reset() { it.k = -1 }

// Cells yields (linear index, index) for every cell in the same order as
// Iterator.
func (g *Grid) Cells() iter.Seq2[int, Index] {
	size := g.size
	return func(yield func(int, Index) bool) {
		k := 0
		for i := 0; i < size.Rows; i++ {
			for j := 0; j < size.Cols; j++ {
				if !yield(k, Index{Row: i, Col: j}) {
					return
				}
				k++
			}
		}
	}
}
