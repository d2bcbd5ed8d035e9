// Package automation runs scripted batches of spins described in YAML.
package automation

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/san-kum/wheelsim/internal/analysis"
	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a named sequence of ensembles.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs Runs seeds starting at Seed on a preset, optionally
// overriding individual params.
type ScenarioStep struct {
	Name      string             `yaml:"name"`
	Preset    string             `yaml:"preset"`
	Params    map[string]float64 `yaml:"params"`
	Runs      int                `yaml:"runs"`
	Seed      int64              `yaml:"seed"`
	Randomize *bool              `yaml:"randomize"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step      ScenarioStep
	Config    config.Config
	Outcomes  []sim.Outcome
	Stats     sim.Stats
	ChiSquare float64
	Dof       int
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Build resolves the step's preset and overrides into a config.
func (s ScenarioStep) Build() (*config.Config, error) {
	preset := s.Preset
	if preset == "" {
		preset = "casino"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes every step in order. Progress goes to logger, which
// may be nil.
func RunScenario(ctx context.Context, l *layout.Layout, scenario *Scenario, logger *log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Printf("step %d/%d: %s (%s, %d runs)", i+1, len(scenario.Steps), step.Name, step.Preset, step.Runs)

		cfg, err := step.Build()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		runs := step.Runs
		if runs < 1 {
			runs = 1
		}

		ens := sim.NewEnsemble(l, *cfg, runs, step.Seed)
		if step.Randomize != nil {
			ens.SetRandomize(*step.Randomize)
		}
		ens.SetLogger(logger)
		outcomes, err := ens.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		numbers := make([]int, len(outcomes))
		for j, o := range outcomes {
			numbers[j] = o.Number
		}
		chi, dof := analysis.ChiSquare(analysis.Histogram(l.Numbers(), numbers))

		results = append(results, StepResult{
			Step:      step,
			Config:    *cfg,
			Outcomes:  outcomes,
			Stats:     sim.Summarize(outcomes),
			ChiSquare: chi,
			Dof:       dof,
		})
	}

	return results, nil
}
