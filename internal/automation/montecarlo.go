package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/experiment"
	"github.com/san-kum/kppsim/internal/sim"
)

// MonteCarloConfig perturbs the named parameters of Base by a uniform
// relative amount in [-Spread, +Spread] for every trial.
type MonteCarloConfig struct {
	Base      config.Params
	Params    []string
	Spread    float64
	NumTrials int
	Seed      int64 // 0 seeds from the clock
	Workers   int
}

// MonteCarloResult is one trial. Invalid trials were rejected by
// validation and never ran.
type MonteCarloResult struct {
	TrialID             int                `json:"trial_id"`
	Values              map[string]float64 `json:"values"`
	Valid               bool               `json:"valid"`
	Efficiency          float64            `json:"efficiency"`
	MeanElectricalPower float64            `json:"mean_electrical_power"`
}

// Summary aggregates the valid trials.
type Summary struct {
	Trials  int `json:"trials"`
	Invalid int `json:"invalid"`

	MeanEfficiency float64 `json:"mean_efficiency"`
	StdEfficiency  float64 `json:"std_efficiency"`
	MinEfficiency  float64 `json:"min_efficiency"`
	MaxEfficiency  float64 `json:"max_efficiency"`

	MeanPower float64 `json:"mean_power"`
	StdPower  float64 `json:"std_power"`
}

// RunMonteCarlo executes cfg.NumTrials randomized runs.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry, logger *slog.Logger) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("monte carlo needs at least 1 trial, got %d", cfg.NumTrials)
	}
	if len(cfg.Params) == 0 {
		return nil, fmt.Errorf("monte carlo needs at least one parameter to perturb")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	logger = orDefault(logger)
	logger.Info("running monte carlo", "trials", cfg.NumTrials, "params", cfg.Params, "spread", cfg.Spread, "seed", seed)

	results := make([]MonteCarloResult, cfg.NumTrials)
	var (
		runnable []config.Params
		index    []int
	)
	for trial := range results {
		p := cfg.Base
		values := make(map[string]float64, len(cfg.Params))
		for _, name := range cfg.Params {
			base, err := p.Get(name)
			if err != nil {
				return nil, err
			}
			v := base * (1 + (rng.Float64()-0.5)*2*cfg.Spread)
			if err := p.Set(name, v); err != nil {
				return nil, err
			}
			values[name] = v
		}

		results[trial] = MonteCarloResult{TrialID: trial, Values: values}
		if err := p.Validate(); err != nil {
			logger.Debug("trial rejected", "trial", trial, "err", err)
			continue
		}
		results[trial].Valid = true
		runnable = append(runnable, p)
		index = append(index, trial)
	}

	runs, err := sim.NewEnsemble(experiment.Factory(registry, logger), cfg.Workers).Run(ctx, runnable)
	if err != nil {
		return nil, err
	}
	for i, r := range runs {
		res := &results[index[i]]
		res.Efficiency = r.Efficiency
		res.MeanElectricalPower = r.MeanElectricalPower()
	}

	return results, nil
}

// MonteCarloStats computes summary statistics over the valid trials.
func MonteCarloStats(results []MonteCarloResult) Summary {
	s := Summary{Trials: len(results)}

	var eff, power []float64
	for _, r := range results {
		if !r.Valid {
			s.Invalid++
			continue
		}
		eff = append(eff, r.Efficiency)
		power = append(power, r.MeanElectricalPower)
	}
	if len(eff) == 0 {
		return s
	}

	s.MeanEfficiency, s.StdEfficiency = stat.MeanStdDev(eff, nil)
	s.MeanPower, s.StdPower = stat.MeanStdDev(power, nil)
	if len(eff) == 1 {
		s.StdEfficiency, s.StdPower = 0, 0
	}
	s.MinEfficiency = floats.Min(eff)
	s.MaxEfficiency = floats.Max(eff)
	return s
}
