// Package gridmap owns the georeferenced multi-layer raster grid.
//
// Responsibilities: grid geometry (size, resolution, origin), named layers
// backed by gonum dense matrices, position/index transforms, cell iteration,
// layer transfer between grids, and snapshot encoding.
// Key types: Grid, Layer, Iterator, TransferOptions, Snapshot.
//
// Axis convention: row index i grows as physical X decreases and column index
// j grows as physical Y decreases, so cell (0, 0) sits at the max-X, max-Y
// corner. Linear indices are row-major, k = i*cols + j, which is also the
// layout of the backing mat.Dense storage.
//
// A Grid is not safe for concurrent mutation. Callers serialise writers.
package gridmap
