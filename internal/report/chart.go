package report

import (
	"fmt"
	"io"
	"time"

	"github.com/banshee-data/rastergrid/internal/bench"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteChart renders an HTML bar chart of best and mean duration per
// variant. Failed variants are left out.
func WriteChart(w io.Writer, run *bench.Run) error {
	names := make([]string, 0, len(run.Results))
	best := make([]opts.BarData, 0, len(run.Results))
	mean := make([]opts.BarData, 0, len(run.Results))
	for _, r := range run.Results {
		if r.Err != nil {
			continue
		}
		names = append(names, r.Variant.Name)
		best = append(best, opts.BarData{Value: durationMillis(r.Best())})
		mean = append(mean, opts.BarData{Value: durationMillis(r.Mean())})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Grid map iteration benchmark", Theme: "dark", Width: "1100px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Grid map iteration benchmark",
			Subtitle: fmt.Sprintf("run=%s map=%s street=%s", run.ID, run.MapSize, run.StreetSize),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "variant", AxisLabel: &opts.AxisLabel{Rotate: 30}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ms"}),
	)
	bar.SetXAxis(names).
		AddSeries("best", best).
		AddSeries("mean", mean)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func durationMillis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
