// Command gridbench times the grid map iteration variants and prints a
// summary. Results can also be charted, rendered as a heatmap and stored in
// SQLite.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/banshee-data/rastergrid/internal/bench"
	"github.com/banshee-data/rastergrid/internal/config"
	"github.com/banshee-data/rastergrid/internal/db"
	"github.com/banshee-data/rastergrid/internal/gridmap"
	"github.com/banshee-data/rastergrid/internal/monitoring"
	"github.com/banshee-data/rastergrid/internal/report"
	"github.com/banshee-data/rastergrid/internal/storage/sqlite"
	"github.com/banshee-data/rastergrid/internal/timeutil"
	"github.com/banshee-data/rastergrid/internal/version"
)

type options struct {
	configPath   string
	dbPath       string
	chartPath    string
	heatmapPath  string
	heatmapLayer string
	variants     string
	repeat       int
	verbose      bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Path to a JSON benchmark config (defaults built in)")
	flag.StringVar(&o.dbPath, "db", "", "SQLite database to store the run and a map snapshot in")
	flag.StringVar(&o.chartPath, "chart", "", "Write an HTML bar chart of the results to this file")
	flag.StringVar(&o.heatmapPath, "heatmap", "", "Write a PNG heatmap of one map layer to this file")
	flag.StringVar(&o.heatmapLayer, "heatmap-layer", "", "Layer drawn by -heatmap (default: the source layer)")
	flag.StringVar(&o.variants, "variants", "", "Comma-separated variants to run (default: all)")
	flag.IntVar(&o.repeat, "repeat", 0, "Repetitions per variant (default: from config)")
	flag.BoolVar(&o.verbose, "v", false, "Log progress to stderr")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("gridbench", version.String())
		return
	}

	if !o.verbose {
		monitoring.SetLogger(nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdout); err != nil {
		log.Fatalf("gridbench: %v", err)
	}
}

func loadConfig(o options) (*config.BenchConfig, error) {
	cfg := config.DefaultBenchConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadBenchConfig(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.variants != "" {
		cfg.Variants = splitList(o.variants)
	}
	if o.repeat > 0 {
		cfg.Repeat = &o.repeat
	}
	return cfg, cfg.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func run(ctx context.Context, o options, stdout io.Writer) error {
	logf := monitoring.Tagged("gridbench")

	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	variants, err := bench.SelectVariants(cfg.Variants)
	if err != nil {
		return err
	}
	env, err := bench.Setup(cfg, variants)
	if err != nil {
		return err
	}
	logf("gridbench %s", version.String())
	logf("map %s cells, street map %s cells, %d variants", env.Map.Size(), env.StreetMap.Size(), len(variants))

	result, runErr := bench.NewRunner(timeutil.RealClock{}, cfg.GetRepeat()).Run(ctx, env, variants)
	if result != nil {
		if err := report.WriteText(stdout, result); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	if o.chartPath != "" {
		if err := writeFile(o.chartPath, func(w io.Writer) error { return report.WriteChart(w, result) }); err != nil {
			return err
		}
		logf("chart written to %s", o.chartPath)
	}

	if o.heatmapPath != "" {
		layer := o.heatmapLayer
		if layer == "" {
			layer = env.SourceLayer
		}
		err := writeFile(o.heatmapPath, func(w io.Writer) error {
			return report.WriteHeatmap(w, env.Map, layer, report.HeatmapOptions{})
		})
		if err != nil {
			return err
		}
		logf("heatmap of %q written to %s", layer, o.heatmapPath)
	}

	if o.dbPath != "" {
		if err := persist(o.dbPath, cfg, result, env.Map); err != nil {
			return err
		}
		logf("run %s stored in %s", result.ID, o.dbPath)
	}
	return nil
}

func persist(path string, cfg *config.BenchConfig, result *bench.Run, grid *gridmap.Grid) error {
	database, err := db.Open(path)
	if err != nil {
		return err
	}
	defer database.Close()

	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := sqlite.NewRunStore(database.DB).InsertRun(result, cfg.GetRepeat(), configJSON); err != nil {
		return err
	}

	snap, err := gridmap.EncodeSnapshot(grid)
	if err != nil {
		return err
	}
	if _, err := sqlite.NewSnapshotStore(database.DB).Insert(result.ID, snap); err != nil {
		return err
	}
	return nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
