// Package report renders benchmark runs and grid layers for people: a
// plain text summary, an HTML bar chart and a PNG heatmap.
package report

import (
	"fmt"
	"io"

	"github.com/banshee-data/rastergrid/internal/bench"
)

// WriteText writes the run summary in the benchmark's classic format, one
// line per variant with its best repetition in milliseconds.
func WriteText(w io.Writer, run *bench.Run) error {
	size := run.MapSize
	if _, err := fmt.Fprintf(w, "Results for iteration over %d x %d (%d) grid cells.\n", size.Rows, size.Cols, size.Cells()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "========================================="); err != nil {
		return err
	}
	for _, r := range run.Results {
		var err error
		switch {
		case r.Err != nil:
			_, err = fmt.Fprintf(w, "Duration %s: error: %v\n", r.Variant.Description, r.Err)
		case r.Stats.Missed > 0:
			_, err = fmt.Fprintf(w, "Duration %s: %d ms (%d cells outside source)\n", r.Variant.Description, r.Best().Milliseconds(), r.Stats.Missed)
		default:
			_, err = fmt.Fprintf(w, "Duration %s: %d ms\n", r.Variant.Description, r.Best().Milliseconds())
		}
		if err != nil {
			return err
		}
	}
	return nil
}
