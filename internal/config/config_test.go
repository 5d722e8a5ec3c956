package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/sphsim/internal/dynamo"
	"github.com/san-kum/sphsim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Strategy != "grid" {
		t.Errorf("expected strategy grid, got %s", cfg.Strategy)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Steps <= 0 {
		t.Error("steps should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestParamsMatchSolverDefaults(t *testing.T) {
	if got, want := DefaultConfig().Params(), physics.DefaultParams(); got != want {
		t.Errorf("params mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := GetPreset("splash")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "strategy: brute\nfluid:\n  viscosity: 1.5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Strategy != "brute" {
		t.Errorf("expected brute, got %s", cfg.Strategy)
	}
	if cfg.Fluid.Viscosity != 1.5 {
		t.Errorf("expected viscosity 1.5, got %f", cfg.Fluid.Viscosity)
	}
	if cfg.Fluid.RestDensity != physics.DefaultParams().RestDensity {
		t.Errorf("rest density lost its default: %f", cfg.Fluid.RestDensity)
	}
}

func TestLoadIntoPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("steps: 42\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := GetPreset("large")
	if err := LoadInto(path, cfg); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	if cfg.Steps != 42 {
		t.Errorf("steps = %d, want 42", cfg.Steps)
	}
	if cfg.Particles.Count != 900 {
		t.Errorf("preset particle count lost: %d", cfg.Particles.Count)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("steps: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			if err := GetPreset(name).Validate(); err != nil {
				t.Errorf("preset %s invalid: %v", name, err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("zero_g")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Gravity.Modifier != 0 {
		t.Errorf("expected modifier 0, got %f", cfg.Gravity.Modifier)
	}

	// callers may mutate their copy freely
	cfg.Steps = 1
	if Presets["zero_g"].Steps == 1 {
		t.Error("preset mutated through returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	if presets[0] != "calm" {
		t.Errorf("expected sorted names, got %v", presets)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cols", func(c *Config) { c.Container.Cols = 0 }},
		{"zero radius", func(c *Config) { c.Fluid.SmoothingRadius = 0 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"zero steps", func(c *Config) { c.Steps = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSetParamMatchesSolver(t *testing.T) {
	s, err := physics.New(physics.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	for name, v := range s.GetParams() {
		t.Run(name, func(t *testing.T) {
			solver, _ := physics.New(physics.DefaultParams())
			cfg := DefaultConfig()

			next := v * 1.01
			if err := solver.SetParam(name, next); err != nil {
				t.Fatalf("solver.SetParam: %v", err)
			}
			if err := cfg.SetParam(name, next); err != nil {
				t.Fatalf("cfg.SetParam: %v", err)
			}
			if cfg.Params() != solver.Params() {
				t.Errorf("params differ:\n cfg    %+v\n solver %+v", cfg.Params(), solver.Params())
			}
		})
	}

	if err := DefaultConfig().SetParam("nope", 1); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("got %v, want ErrUnknownParam", err)
	}
}

func TestSetParamRefitsGrid(t *testing.T) {
	tests := []struct {
		name       string
		value      float64
		cols, rows int
	}{
		{"container_width", 9, 12, 14},
		{"container_height", 5, 14, 7},
		{"smoothing_radius", 0.75, 13, 13},
		{"container_width", 20, 28, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := cfg.SetParam(tt.name, tt.value); err != nil {
				t.Fatal(err)
			}
			if cfg.Container.Cols != tt.cols || cfg.Container.Rows != tt.rows {
				t.Errorf("grid = %dx%d, want %dx%d", cfg.Container.Cols, cfg.Container.Rows, tt.cols, tt.rows)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("refit config invalid: %v", err)
			}
		})
	}
}
