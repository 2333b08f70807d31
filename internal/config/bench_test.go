package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultBenchConfig(t *testing.T) {
	cfg := DefaultBenchConfig()

	if cfg.SourceLayer == nil || *cfg.SourceLayer != "random" {
		t.Errorf("Expected SourceLayer 'random', got %v", cfg.SourceLayer)
	}
	if cfg.Seed == nil || *cfg.Seed != 1 {
		t.Errorf("Expected Seed 1, got %v", cfg.Seed)
	}
	if cfg.Map == nil || cfg.Map.Resolution == nil || *cfg.Map.Resolution != 0.01 {
		t.Errorf("Expected Map.Resolution 0.01, got %+v", cfg.Map)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultBenchConfig() is invalid: %v", err)
	}

	// Getters agree with the populated pointers.
	if got := cfg.GetMap(); got != defaultMap {
		t.Errorf("GetMap() = %+v, want %+v", got, defaultMap)
	}
	if got := cfg.GetStreetMap(); got != defaultStreetMap {
		t.Errorf("GetStreetMap() = %+v, want %+v", got, defaultStreetMap)
	}
	if lo, hi := cfg.GetRandomRange(); lo != -1 || hi != 1 {
		t.Errorf("GetRandomRange() = [%g, %g], want [-1, 1]", lo, hi)
	}
}

func TestEmptyBenchConfigGetters(t *testing.T) {
	cfg := EmptyBenchConfig()

	if cfg.GetSourceLayer() != "random" {
		t.Errorf("GetSourceLayer() = %q, want random", cfg.GetSourceLayer())
	}
	if cfg.GetSeed() != 1 {
		t.Errorf("GetSeed() = %d, want 1", cfg.GetSeed())
	}
	if cfg.GetRepeat() != 1 {
		t.Errorf("GetRepeat() = %d, want 1", cfg.GetRepeat())
	}
	if cfg.GetMap() != defaultMap {
		t.Errorf("GetMap() = %+v, want %+v", cfg.GetMap(), defaultMap)
	}
}

func TestLoadBenchConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bench.json")

	// Partial geometry: only resolution and origin_y are overridden.
	testJSON := `{
  "map": {"resolution": 0.02, "origin_y": -1.5},
  "seed": 42,
  "variants": ["direct", "linear"],
  "repeat": 3
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadBenchConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	m := cfg.GetMap()
	if m.Resolution != 0.02 || m.OriginY != -1.5 {
		t.Errorf("GetMap() = %+v, want resolution 0.02 and origin_y -1.5", m)
	}
	if m.LengthX != defaultMap.LengthX || m.OriginX != defaultMap.OriginX {
		t.Errorf("GetMap() lost defaults for unset fields: %+v", m)
	}
	if cfg.GetStreetMap() != defaultStreetMap {
		t.Errorf("GetStreetMap() = %+v, want defaults", cfg.GetStreetMap())
	}
	if cfg.GetSeed() != 42 {
		t.Errorf("GetSeed() = %d, want 42", cfg.GetSeed())
	}
	if cfg.GetRepeat() != 3 {
		t.Errorf("GetRepeat() = %d, want 3", cfg.GetRepeat())
	}
	if len(cfg.Variants) != 2 || cfg.Variants[0] != "direct" {
		t.Errorf("Variants = %v, want [direct linear]", cfg.Variants)
	}
}

func TestLoadBenchConfigErrors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"missing file", "/nonexistent/path/to/config.json", "failed to stat"},
		{"wrong extension", write("bench.yaml", "{}"), ".json extension"},
		{"invalid json", write("bad.json", `{"seed": "x"`), "failed to parse"},
		{"invalid values", write("neg.json", `{"map": {"resolution": -1}}`), "invalid configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBenchConfig(tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadBenchConfig(%s) error = %v, want containing %q", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestLoadBenchConfigTooLarge(t *testing.T) {
	p := filepath.Join(t.TempDir(), "big.json")
	if err := os.WriteFile(p, make([]byte, 1024*1024+1), 0644); err != nil {
		t.Fatalf("Failed to write big config: %v", err)
	}
	if _, err := LoadBenchConfig(p); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected too large error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		cfg     *BenchConfig
		wantErr bool
	}{
		{"empty", EmptyBenchConfig(), false},
		{"defaults", DefaultBenchConfig(), false},
		{"zero resolution", &BenchConfig{StreetMap: &GeometryConfig{Resolution: ptrFloat64(0)}}, true},
		{"negative length", &BenchConfig{Map: &GeometryConfig{LengthY: ptrFloat64(-2)}}, true},
		{"nan origin", &BenchConfig{Map: &GeometryConfig{OriginX: &nan}}, true},
		{"empty source layer", &BenchConfig{SourceLayer: ptrString("")}, true},
		{"inverted range", &BenchConfig{RandomMin: ptrFloat64(2)}, true},
		{"zero repeat", &BenchConfig{Repeat: ptrInt(0)}, true},
		{"empty variant", &BenchConfig{Variants: []string{"direct", ""}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.GetMap() != defaultMap {
		t.Errorf("defaults file map = %+v, want %+v", cfg.GetMap(), defaultMap)
	}
	if cfg.GetStreetMap() != defaultStreetMap {
		t.Errorf("defaults file street_map = %+v, want %+v", cfg.GetStreetMap(), defaultStreetMap)
	}
	if cfg.GetSourceLayer() != "random" {
		t.Errorf("defaults file source_layer = %q", cfg.GetSourceLayer())
	}
}

// The full-size geometry of the classic benchmark: a 5120 x 5120 map inside a
// coarser 10000 x 10000 street map.
func TestLoadOriginalGeometryConfig(t *testing.T) {
	cfg, err := LoadBenchConfig("../../config/bench.original.json")
	if err != nil {
		t.Fatalf("LoadBenchConfig failed: %v", err)
	}
	wantMap := Geometry{LengthX: 51.2, LengthY: 51.2, Resolution: 0.01, OriginX: 0, OriginY: 20}
	if got := cfg.GetMap(); got != wantMap {
		t.Errorf("map = %+v, want %+v", got, wantMap)
	}
	wantStreet := Geometry{LengthX: 1000, LengthY: 1000, Resolution: 0.1, OriginX: 4, OriginY: 4}
	if got := cfg.GetStreetMap(); got != wantStreet {
		t.Errorf("street_map = %+v, want %+v", got, wantStreet)
	}
}
