// Package config decodes pycc.yaml, the compiler configuration record a
// project root carries alongside its sources: target toolchain paths,
// optimizer settings, and runtime GC tuning (spec section 5,
// SPEC_FULL.md "ambient stack: configuration").
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the current pycc.yaml schema version; Load treats a
// file with no schema field as this version and rejects any file that
// declares a different one.
const SchemaVersion = "pycc.config/v1"

// Toolchain names the external binaries Driver shells out to (spec
// section 4.3.6).
type Toolchain struct {
	ClangPath      string `yaml:"clang_path"`
	OptPath        string `yaml:"opt_path"`
	PassPluginPath string `yaml:"pass_plugin_path,omitempty"`
}

// Optimizer carries the optimizer settings (spec section 4.2.4). MaxRounds
// bounds how many times the fixed-point loop iterates. Enabled and
// UnrollCap are decoded but not read: the driver always runs
// internal/optimizer's full pass list, and LoopUnroll applies its own
// fixed iteration cap.
type Optimizer struct {
	Enabled    []string `yaml:"enabled"`
	MaxRounds  int      `yaml:"max_rounds"`
	UnrollCap  int      `yaml:"unroll_cap"`
}

// GC carries the runtime's tunable knobs (spec section 4.4.2-4.4.4), set
// at process start via gc_set_threshold/gc_set_conservative/
// gc_set_background/gc_set_barrier_mode before any generated code runs.
type GC struct {
	ThresholdBytes uint64 `yaml:"threshold_bytes"`
	Conservative   bool   `yaml:"conservative"`
	Background     bool   `yaml:"background"`
	BarrierMode    string `yaml:"barrier_mode"` // "incremental-update" or "satb"
}

// Config is the decoded form of pycc.yaml.
type Config struct {
	Schema    string    `yaml:"schema"`
	Toolchain Toolchain `yaml:"toolchain"`
	Optimizer Optimizer `yaml:"optimizer"`
	GC        GC        `yaml:"gc"`
	OutputDir string    `yaml:"output_dir"`
}

// New returns a Config with the same conservative defaults cmd/pycc falls
// back to when no pycc.yaml is present: all optimizer passes enabled, a
// 1 MiB GC threshold, background collection on, incremental-update
// barriers.
func New() *Config {
	return &Config{
		Schema: SchemaVersion,
		Toolchain: Toolchain{
			ClangPath: "clang",
			OptPath:   "opt",
		},
		Optimizer: Optimizer{
			Enabled: []string{
				"localprop", "cse", "gvn", "ssagvn", "licm",
				"loopunroll", "simplifycfg", "simplifyscopes", "rangeanalysis",
			},
			MaxRounds: 4,
			UnrollCap: 8,
		},
		GC: GC{
			ThresholdBytes: 1 << 20,
			Background:     true,
			BarrierMode:    "incremental-update",
		},
		OutputDir: "build",
	}
}

// Load reads and validates a pycc.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c := New()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Save writes c back to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks schema compatibility and the GC barrier mode enum,
// mirroring manifest.Manifest.Validate's "check schema, then check every
// field with a closed set of values" shape.
func (c *Config) Validate() error {
	if c.Schema == "" {
		c.Schema = SchemaVersion
	}
	if c.Schema != SchemaVersion {
		return fmt.Errorf("unsupported config schema: %s (expected %s)", c.Schema, SchemaVersion)
	}
	switch c.GC.BarrierMode {
	case "incremental-update", "satb":
	default:
		return fmt.Errorf("invalid gc.barrier_mode: %q", c.GC.BarrierMode)
	}
	if c.Toolchain.ClangPath == "" {
		return fmt.Errorf("toolchain.clang_path must not be empty")
	}
	if c.Toolchain.OptPath == "" {
		return fmt.Errorf("toolchain.opt_path must not be empty")
	}
	return nil
}

// BarrierModeInt maps the config's string barrier mode to the integer
// gc_set_barrier_mode expects (0 = incremental-update, 1 = SATB).
func (c *Config) BarrierModeInt() int {
	if c.GC.BarrierMode == "satb" {
		return 1
	}
	return 0
}
