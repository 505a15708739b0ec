package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/experiment"
	"github.com/san-kum/kppsim/internal/sim"
)

// Scenario is a named set of variants of one base configuration.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Preset      string    `yaml:"preset"` // base preset, default "baseline"
	Config      string    `yaml:"config"` // optional params file, overlays the preset
	Variants    []Variant `yaml:"variants"`
}

// Variant overrides parameters of the scenario base by dotted name.
type Variant struct {
	Name   string            `yaml:"name"`
	Set    map[string]string `yaml:"set"`
	SaveAs string            `yaml:"save_as"`
}

// VariantResult pairs a variant with its run.
type VariantResult struct {
	Variant Variant
	Params  config.Params
	Result  *sim.CycleResult
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
	if len(scenario.Variants) == 0 {
		return nil, fmt.Errorf("scenario %q has no variants", scenario.Name)
	}
	return &scenario, nil
}

// Base resolves the scenario's starting parameters.
func (s *Scenario) Base() (config.Params, error) {
	name := s.Preset
	if name == "" {
		name = "baseline"
	}
	p, ok := config.GetPreset(name)
	if !ok {
		return config.Params{}, fmt.Errorf("unknown preset: %s", name)
	}
	if s.Config != "" {
		loaded, err := config.Load(s.Config)
		if err != nil {
			return config.Params{}, err
		}
		p = loaded
	}
	return p, nil
}

// Resolve applies every variant's overrides to the base.
func (s *Scenario) Resolve() ([]config.Params, error) {
	base, err := s.Base()
	if err != nil {
		return nil, err
	}

	out := make([]config.Params, len(s.Variants))
	for i, v := range s.Variants {
		p := base
		for name, value := range v.Set {
			if err := p.SetString(name, value); err != nil {
				return nil, fmt.Errorf("variant %s: %w", v.Name, err)
			}
		}
		out[i] = p
	}
	return out, nil
}

// RunScenario executes all variants in parallel. Results keep the order
// of the file.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *slog.Logger) ([]VariantResult, error) {
	params, err := scenario.Resolve()
	if err != nil {
		return nil, err
	}

	logger = orDefault(logger)
	logger.Info("running scenario", "name", scenario.Name, "variants", len(params))

	ens := sim.NewEnsemble(experiment.Factory(registry, logger), 0)
	results, err := ens.Run(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]VariantResult, len(results))
	for i, r := range results {
		out[i] = VariantResult{Variant: scenario.Variants[i], Params: params[i], Result: r}
	}
	return out, nil
}

func orDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
