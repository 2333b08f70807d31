package gridmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	t.Parallel()
	g := newTestGrid(t, 6, 9, 0.25, Position{X: -1.5, Y: 4})
	randomLayer(t, g, "random", 9)
	require.NoError(t, g.AddLayer("layer1", 2.5))

	snap, err := EncodeSnapshot(g)
	require.NoError(t, err)
	assert.Equal(t, 6, snap.Rows)
	assert.Equal(t, 9, snap.Cols)
	assert.Equal(t, []string{"random", "layer1"}, snap.LayerNames)
	assert.NotEmpty(t, snap.LayersBlob)

	got, err := snap.Restore()
	require.NoError(t, err)
	assert.Equal(t, g.Size(), got.Size())
	assert.Equal(t, g.Resolution(), got.Resolution())
	assert.Equal(t, g.Origin(), got.Origin())
	assert.Equal(t, g.Layers(), got.Layers())
	for _, name := range g.Layers() {
		assert.Equal(t, layerData(t, g, name), layerData(t, got, name), name)
	}

	// Fill values survive, so a later resize resets to the same value.
	l, err := got.Layer("layer1")
	require.NoError(t, err)
	assert.Equal(t, 2.5, l.FillValue())
}

func TestSnapshot_NoLayers(t *testing.T) {
	t.Parallel()
	g := newTestGrid(t, 2, 3, 1, Position{})
	snap, err := EncodeSnapshot(g)
	require.NoError(t, err)
	got, err := snap.Restore()
	require.NoError(t, err)
	assert.Empty(t, got.Layers())
	assert.Equal(t, Size{Rows: 2, Cols: 3}, got.Size())
}

func TestSnapshot_Errors(t *testing.T) {
	t.Parallel()

	_, err := EncodeSnapshot(&Grid{})
	assert.ErrorIs(t, err, ErrUninitializedGrid)

	var nilSnap *Snapshot
	_, err = nilSnap.Restore()
	assert.Error(t, err)

	_, err = (&Snapshot{Rows: 2, Cols: 2, Resolution: 1}).Restore()
	assert.ErrorContains(t, err, "empty layers blob")

	_, err = (&Snapshot{Rows: 2, Cols: 2, Resolution: 0, LayersBlob: []byte{1}}).Restore()
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = (&Snapshot{Rows: 2, Cols: 2, Resolution: 1, LayersBlob: []byte("not gzip")}).Restore()
	assert.ErrorContains(t, err, "gzip")
}

func TestSnapshot_ShapeMismatch(t *testing.T) {
	t.Parallel()
	g := newTestGrid(t, 3, 3, 1, Position{})
	require.NoError(t, g.AddLayer("x", 0))
	snap, err := EncodeSnapshot(g)
	require.NoError(t, err)

	// Geometry fields no longer describe the encoded layers.
	snap.Rows = 4
	_, err = snap.Restore()
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
