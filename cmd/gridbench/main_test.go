package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/rastergrid/internal/db"
	"github.com/banshee-data/rastergrid/internal/monitoring"
	"github.com/banshee-data/rastergrid/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	monitoring.SetLogger(nil)
}

const smallConfig = `{
  "map": {"length_x": 0.24, "length_y": 0.24, "resolution": 0.01, "origin_x": 0, "origin_y": 0.1},
  "street_map": {"length_x": 0.64, "length_y": 0.64, "resolution": 0.01, "origin_x": 0.04, "origin_y": 0.04},
  "seed": 7,
  "repeat": 2
}`

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "bench.json")
	require.NoError(t, os.WriteFile(path, []byte(smallConfig), 0644))
	return path
}

func TestRun_AllOutputs(t *testing.T) {
	dir := t.TempDir()
	o := options{
		configPath:  writeConfig(t, dir),
		dbPath:      filepath.Join(dir, "bench.db"),
		chartPath:   filepath.Join(dir, "chart.html"),
		heatmapPath: filepath.Join(dir, "random.png"),
	}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), o, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "Results for iteration over 24 x 24 (576) grid cells.", lines[0])
	for _, l := range lines[2:] {
		assert.True(t, strings.HasPrefix(l, "Duration "), l)
		assert.NotContains(t, l, "error")
	}

	chart, err := os.ReadFile(o.chartPath)
	require.NoError(t, err)
	assert.Contains(t, string(chart), "custom-linear")

	png, err := os.ReadFile(o.heatmapPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	database, err := db.Open(o.dbPath)
	require.NoError(t, err)
	defer database.Close()
	runs, err := sqlite.NewRunStore(database.DB).ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Repeat)
	assert.Contains(t, string(runs[0].ConfigJSON), `"seed":7`)

	results, err := sqlite.NewRunStore(database.DB).ListResults(runs[0].RunID)
	require.NoError(t, err)
	assert.Len(t, results, 10)

	rec, err := sqlite.NewSnapshotStore(database.DB).LatestForRun(runs[0].RunID)
	require.NoError(t, err)
	g, err := rec.Snapshot.Restore()
	require.NoError(t, err)
	assert.Len(t, g.Layers(), 11)
}

func TestRun_VariantSelection(t *testing.T) {
	dir := t.TempDir()
	o := options{configPath: writeConfig(t, dir), variants: "bulk, linear", repeat: 1}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), o, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "gonum dense apply")
	assert.Contains(t, lines[3], "grid map iterator (linear index)")
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()

	err := run(context.Background(), options{variants: "nope"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, `unknown variant "nope"`)

	err = run(context.Background(), options{configPath: filepath.Join(dir, "bench.yaml")}, &bytes.Buffer{})
	assert.ErrorContains(t, err, ".json extension")

	o := options{configPath: writeConfig(t, dir), variants: "bulk", heatmapPath: filepath.Join(dir, "h.png"), heatmapLayer: "missing"}
	err = run(context.Background(), o, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown layer")
}

func TestRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := run(ctx, options{configPath: writeConfig(t, dir)}, &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out.String(), "Results for iteration over")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a,,b ,"))
	assert.Nil(t, splitList(""))
}
