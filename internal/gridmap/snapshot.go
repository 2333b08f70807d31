package gridmap

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Snapshot is the persistable form of a Grid: geometry in plain fields and
// all layers in one compressed blob.
type Snapshot struct {
	Rows       int
	Cols       int
	Resolution float64
	OriginX    float64
	OriginY    float64
	LayerNames []string
	LayersBlob []byte // gzip'd gob of []snapshotLayer
}

// snapshotLayer carries one layer; Data is mat.Dense binary encoding.
type snapshotLayer struct {
	Name      string
	FillValue float64
	Data      []byte
}

// EncodeSnapshot captures g and all of its layers.
func EncodeSnapshot(g *Grid) (*Snapshot, error) {
	if !g.Initialized() {
		return nil, ErrUninitializedGrid
	}
	layers := make([]snapshotLayer, 0, len(g.order))
	for _, name := range g.order {
		l := g.layers[name]
		data, err := l.data.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("encode layer %q: %w", name, err)
		}
		layers = append(layers, snapshotLayer{Name: name, FillValue: l.fillValue, Data: data})
	}
	blob, err := serializeLayers(layers)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Rows:       g.size.Rows,
		Cols:       g.size.Cols,
		Resolution: g.resolution,
		OriginX:    g.origin.X,
		OriginY:    g.origin.Y,
		LayerNames: g.Layers(),
		LayersBlob: blob,
	}, nil
}

// Restore rebuilds the grid captured by s.
func (s *Snapshot) Restore() (*Grid, error) {
	if s == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	length := Length{X: float64(s.Rows) * s.Resolution, Y: float64(s.Cols) * s.Resolution}
	g, err := NewGrid(length, s.Resolution, Position{X: s.OriginX, Y: s.OriginY})
	if err != nil {
		return nil, err
	}
	if g.size.Rows != s.Rows || g.size.Cols != s.Cols {
		return nil, fmt.Errorf("%w: snapshot is %dx%d, geometry gives %s", ErrInvalidGeometry, s.Rows, s.Cols, g.size)
	}
	layers, err := deserializeLayers(s.LayersBlob)
	if err != nil {
		return nil, err
	}
	for _, sl := range layers {
		var m mat.Dense
		if err := m.UnmarshalBinary(sl.Data); err != nil {
			return nil, fmt.Errorf("decode layer %q: %w", sl.Name, err)
		}
		if err := g.AddLayerFrom(sl.Name, &m); err != nil {
			return nil, err
		}
		g.layers[sl.Name].fillValue = sl.FillValue
	}
	return g, nil
}

func serializeLayers(layers []snapshotLayer) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(layers); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeLayers(blob []byte) ([]snapshotLayer, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty layers blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var layers []snapshotLayer
	if err := gob.NewDecoder(gz).Decode(&layers); err != nil {
		return nil, fmt.Errorf("failed to decode layers: %w", err)
	}
	return layers, nil
}
