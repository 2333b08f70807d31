package bench

import (
	"fmt"
	"math/rand/v2"

	"github.com/banshee-data/rastergrid/internal/config"
	"github.com/banshee-data/rastergrid/internal/gridmap"
	"gonum.org/v1/gonum/stat/distuv"
)

// Env holds the two grids a run works on.
type Env struct {
	Map         *gridmap.Grid
	StreetMap   *gridmap.Grid
	SourceLayer string
}

// Setup builds the map and street map described by cfg, fills the source
// layer of both with uniform random values and adds one zeroed target layer
// per variant to the map.
func Setup(cfg *config.BenchConfig, variants []Variant) (*Env, error) {
	m, err := newGrid(cfg.GetMap())
	if err != nil {
		return nil, fmt.Errorf("map: %w", err)
	}
	street, err := newGrid(cfg.GetStreetMap())
	if err != nil {
		return nil, fmt.Errorf("street map: %w", err)
	}

	source := cfg.GetSourceLayer()
	lo, hi := cfg.GetRandomRange()
	seed := cfg.GetSeed()
	for i, g := range []*gridmap.Grid{m, street} {
		if err := g.AddLayer(source, 0); err != nil {
			return nil, err
		}
		l, err := g.Layer(source)
		if err != nil {
			return nil, err
		}
		FillUniform(l, lo, hi, seed+uint64(i))
	}
	for _, v := range variants {
		if err := m.AddLayer(v.TargetLayer(), 0); err != nil {
			return nil, fmt.Errorf("variant %s: %w", v.Name, err)
		}
	}
	return &Env{Map: m, StreetMap: street, SourceLayer: source}, nil
}

func newGrid(geo config.Geometry) (*gridmap.Grid, error) {
	return gridmap.NewGrid(
		gridmap.Length{X: geo.LengthX, Y: geo.LengthY},
		geo.Resolution,
		gridmap.Position{X: geo.OriginX, Y: geo.OriginY},
	)
}

// FillUniform sets every cell of l to a value drawn uniformly from
// [lo, hi). The same seed always yields the same layer.
func FillUniform(l *gridmap.Layer, lo, hi float64, seed uint64) {
	dist := distuv.Uniform{Min: lo, Max: hi, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
	data := l.Data()
	for k := range data {
		data[k] = dist.Rand()
	}
}
