package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical benchmark defaults file.
const DefaultConfigPath = "config/bench.defaults.json"

// GeometryConfig describes one grid. Omitted fields fall back to the
// defaults of the grid it configures.
type GeometryConfig struct {
	LengthX    *float64 `json:"length_x,omitempty"`
	LengthY    *float64 `json:"length_y,omitempty"`
	Resolution *float64 `json:"resolution,omitempty"`
	OriginX    *float64 `json:"origin_x,omitempty"`
	OriginY    *float64 `json:"origin_y,omitempty"`
}

// Geometry is a fully resolved GeometryConfig.
type Geometry struct {
	LengthX    float64
	LengthY    float64
	Resolution float64
	OriginX    float64
	OriginY    float64
}

// BenchConfig is the root configuration of a benchmark run.
type BenchConfig struct {
	// Grids
	Map       *GeometryConfig `json:"map,omitempty"`
	StreetMap *GeometryConfig `json:"street_map,omitempty"`

	// Source layer contents
	SourceLayer *string  `json:"source_layer,omitempty"`
	Seed        *uint64  `json:"seed,omitempty"`
	RandomMin   *float64 `json:"random_min,omitempty"`
	RandomMax   *float64 `json:"random_max,omitempty"`

	// Run shape
	Variants []string `json:"variants,omitempty"` // empty means all
	Repeat   *int     `json:"repeat,omitempty"`
}

var (
	defaultMap       = Geometry{LengthX: 5.12, LengthY: 5.12, Resolution: 0.01, OriginX: 0, OriginY: 2}
	defaultStreetMap = Geometry{LengthX: 20.48, LengthY: 20.48, Resolution: 0.01, OriginX: 0.4, OriginY: 0.4}
)

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrUint64(v uint64) *uint64    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyBenchConfig returns a BenchConfig with all fields unset.
func EmptyBenchConfig() *BenchConfig {
	return &BenchConfig{}
}

// DefaultBenchConfig returns a BenchConfig with every field set to its
// built-in default.
func DefaultBenchConfig() *BenchConfig {
	return &BenchConfig{
		Map:         defaultMap.toConfig(),
		StreetMap:   defaultStreetMap.toConfig(),
		SourceLayer: ptrString("random"),
		Seed:        ptrUint64(1),
		RandomMin:   ptrFloat64(-1),
		RandomMax:   ptrFloat64(1),
		Repeat:      ptrInt(1),
	}
}

func (g Geometry) toConfig() *GeometryConfig {
	return &GeometryConfig{
		LengthX:    ptrFloat64(g.LengthX),
		LengthY:    ptrFloat64(g.LengthY),
		Resolution: ptrFloat64(g.Resolution),
		OriginX:    ptrFloat64(g.OriginX),
		OriginY:    ptrFloat64(g.OriginY),
	}
}

// LoadBenchConfig loads a BenchConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted
// from the file keep their defaults through the Get* methods.
func LoadBenchConfig(path string) (*BenchConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyBenchConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *BenchConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/storage/sqlite/
	}
	for _, path := range candidates {
		if cfg, err := LoadBenchConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *BenchConfig) Validate() error {
	if err := c.Map.validate("map"); err != nil {
		return err
	}
	if err := c.StreetMap.validate("street_map"); err != nil {
		return err
	}
	if c.SourceLayer != nil && *c.SourceLayer == "" {
		return fmt.Errorf("source_layer must not be empty")
	}
	lo, hi := c.GetRandomRange()
	if !(lo < hi) {
		return fmt.Errorf("random_min must be less than random_max, got [%g, %g]", lo, hi)
	}
	if c.Repeat != nil && *c.Repeat < 1 {
		return fmt.Errorf("repeat must be at least 1, got %d", *c.Repeat)
	}
	for i, v := range c.Variants {
		if v == "" {
			return fmt.Errorf("variants[%d] is empty", i)
		}
	}
	return nil
}

func (g *GeometryConfig) validate(name string) error {
	if g == nil {
		return nil
	}
	positive := map[string]*float64{
		"length_x":   g.LengthX,
		"length_y":   g.LengthY,
		"resolution": g.Resolution,
	}
	for field, v := range positive {
		if v != nil && (!(*v > 0) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%s.%s must be positive and finite, got %g", name, field, *v)
		}
	}
	for field, v := range map[string]*float64{"origin_x": g.OriginX, "origin_y": g.OriginY} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%s.%s must be finite, got %g", name, field, *v)
		}
	}
	return nil
}

func (g *GeometryConfig) resolve(def Geometry) Geometry {
	if g == nil {
		return def
	}
	out := def
	if g.LengthX != nil {
		out.LengthX = *g.LengthX
	}
	if g.LengthY != nil {
		out.LengthY = *g.LengthY
	}
	if g.Resolution != nil {
		out.Resolution = *g.Resolution
	}
	if g.OriginX != nil {
		out.OriginX = *g.OriginX
	}
	if g.OriginY != nil {
		out.OriginY = *g.OriginY
	}
	return out
}

// GetMap returns the destination map geometry or the default.
func (c *BenchConfig) GetMap() Geometry {
	return c.Map.resolve(defaultMap)
}

// GetStreetMap returns the street map geometry or the default.
func (c *BenchConfig) GetStreetMap() Geometry {
	return c.StreetMap.resolve(defaultStreetMap)
}

// GetSourceLayer returns the source_layer value or the default.
func (c *BenchConfig) GetSourceLayer() string {
	if c.SourceLayer == nil {
		return "random"
	}
	return *c.SourceLayer
}

// GetSeed returns the seed value or the default.
func (c *BenchConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return 1
	}
	return *c.Seed
}

// GetRandomRange returns the random fill bounds or the default [-1, 1].
func (c *BenchConfig) GetRandomRange() (lo, hi float64) {
	lo, hi = -1, 1
	if c.RandomMin != nil {
		lo = *c.RandomMin
	}
	if c.RandomMax != nil {
		hi = *c.RandomMax
	}
	return lo, hi
}

// GetRepeat returns the repeat value or the default.
func (c *BenchConfig) GetRepeat() int {
	if c.Repeat == nil {
		return 1
	}
	return *c.Repeat
}
