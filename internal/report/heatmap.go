package report

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/banshee-data/rastergrid/internal/gridmap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// layerXYZ adapts a grid layer to plotter.GridXYZ. Plot columns run along
// physical X and plot rows along physical Y, both increasing, so grid rows
// and columns are read back to front.
type layerXYZ struct {
	grid  *gridmap.Grid
	layer *gridmap.Layer
	rows  int
	cols  int
}

func newLayerXYZ(g *gridmap.Grid, name string) (*layerXYZ, error) {
	l, err := g.Layer(name)
	if err != nil {
		return nil, err
	}
	rows, cols := l.Dims()
	return &layerXYZ{grid: g, layer: l, rows: rows, cols: cols}, nil
}

func (h *layerXYZ) Dims() (c, r int) { return h.rows, h.cols }

func (h *layerXYZ) Z(c, r int) float64 {
	return h.layer.At(h.rows-1-c, h.cols-1-r)
}

func (h *layerXYZ) X(c int) float64 {
	return h.grid.Position(gridmap.Index{Row: h.rows - 1 - c}).X
}

func (h *layerXYZ) Y(r int) float64 {
	return h.grid.Position(gridmap.Index{Col: h.cols - 1 - r}).Y
}

// HeatmapOptions controls WriteHeatmap.
type HeatmapOptions struct {
	Title  string
	Size   vg.Length // square image edge, default 6 inches
	Format string    // image format for the encoder, default "png"
	Colors int       // palette size, default 64
}

// WriteHeatmap renders one layer of g as a heatmap image. NaN cells are
// drawn transparent.
func WriteHeatmap(w io.Writer, g *gridmap.Grid, layer string, o HeatmapOptions) error {
	xyz, err := newLayerXYZ(g, layer)
	if err != nil {
		return err
	}
	if o.Size == 0 {
		o.Size = 6 * vg.Inch
	}
	if o.Format == "" {
		o.Format = "png"
	}
	if o.Colors == 0 {
		o.Colors = 64
	}
	if o.Title == "" {
		o.Title = fmt.Sprintf("%s (%s cells, %g m)", layer, g.Size(), g.Resolution())
	}

	hm := plotter.NewHeatMap(xyz, palette.Heat(o.Colors, 1))
	hm.NaN = color.Transparent
	// A constant layer has Min == Max, which the heatmap cannot scale.
	if hm.Min == hm.Max {
		hm.Min, hm.Max = hm.Min-0.5, hm.Max+0.5
	}
	if math.IsNaN(hm.Min) || math.IsInf(hm.Min, 0) {
		return fmt.Errorf("layer %q has no finite values", layer)
	}

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.Add(hm)

	wt, err := p.WriterTo(o.Size, o.Size, o.Format)
	if err != nil {
		return fmt.Errorf("failed to create %s writer: %w", o.Format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write heatmap: %w", err)
	}
	return nil
}
