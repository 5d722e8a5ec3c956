package automation

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sphsim/internal/config"
	"github.com/san-kum/sphsim/internal/experiment"
	"github.com/san-kum/sphsim/internal/sim"
	"github.com/san-kum/sphsim/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Zero fields keep the preset's
// value.
type ScenarioStep struct {
	Preset     string             `yaml:"preset"`
	Strategy   string             `yaml:"strategy"`
	Integrator string             `yaml:"integrator"`
	Steps      int                `yaml:"steps"`
	Dt         float64            `yaml:"dt"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

// StepResult pairs a finished run with the metadata needed to store it.
type StepResult struct {
	Step     ScenarioStep
	Metadata storage.RunMetadata
	Result   *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the step into a full run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}

	if s.Strategy != "" {
		cfg.Strategy = s.Strategy
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Steps > 0 {
		cfg.Steps = s.Steps
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}

	names := make([]string, 0, len(s.Params))
	for name := range s.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := cfg.SetParam(name, s.Params[name]); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunScenario executes all steps in order, reporting progress to w. It stops
// at the first step that fails and returns the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, w io.Writer) ([]StepResult, error) {
	if w == nil {
		w = io.Discard
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s_%d", scenario.Name, i+1)
		}
		fmt.Fprintf(w, "running step %d/%d: %s\n", i+1, len(scenario.Steps), name)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{
			Step:     step,
			Metadata: exp.Metadata(name),
			Result:   result,
		})
	}

	return results, nil
}

// MonteCarloConfig defines trials that rerun one configuration from
// randomly jittered layouts.
type MonteCarloConfig struct {
	Base      *config.Config
	Jitter    float64
	NumTrials int
	// Seed drives the per-trial layout seeds; zero uses the clock.
	Seed int64
}

// MonteCarloResult holds the outcome of one trial
type MonteCarloResult struct {
	TrialID int
	Seed    int64
	Metrics map[string]float64
	Stable  bool // every sample stayed finite and under the speed threshold
}

// RunMonteCarlo executes NumTrials runs, each with its own layout seed.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry, w io.Writer) ([]MonteCarloResult, error) {
	if w == nil {
		w = io.Discard
	}
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		c := *cfg.Base
		c.Particles.Jitter = cfg.Jitter
		c.Seed = rng.Int63()

		exp := experiment.New(&c)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Seed:    c.Seed,
			Metrics: result.Metrics,
			Stable:  len(result.Errors) == 0 && result.Metrics["stability"] == 1,
		})

		if (trial+1)%10 == 0 {
			fmt.Fprintf(w, "monte carlo: %d/%d trials complete\n", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts stable and unstable trials
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
