package automation

import (
	"context"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/experiment"
	"github.com/san-kum/kppsim/internal/sim"
)

// ParameterSweep runs the base configuration across an evenly spaced range
// of one parameter.
type ParameterSweep struct {
	Base      config.Params
	ParamName string
	Min       float64
	Max       float64
	NumSteps  int
	Workers   int
}

// SweepResult holds the headline figures of one sweep point.
type SweepResult struct {
	ParamValue          float64 `json:"param_value" csv:"param_value"`
	Efficiency          float64 `json:"efficiency" csv:"efficiency"`
	EnergyOut           float64 `json:"energy_out" csv:"energy_out"`
	EnergyIn            float64 `json:"energy_in" csv:"energy_in"`
	MeanElectricalPower float64 `json:"mean_electrical_power" csv:"mean_electrical_power"`
	MeanTorque          float64 `json:"mean_torque" csv:"mean_torque"`
}

// Values returns the NumSteps parameter values, Min and Max included.
func (s *ParameterSweep) Values() []float64 {
	return floats.Span(make([]float64, s.NumSteps), s.Min, s.Max)
}

// RunSweep executes a parameter sweep. Any point that fails validation
// fails the whole sweep; optim.GridSearch skips such points instead.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, logger *slog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	values := sweep.Values()
	params := make([]config.Params, len(values))
	for i, v := range values {
		p := sweep.Base
		if err := p.Set(sweep.ParamName, v); err != nil {
			return nil, err
		}
		params[i] = p
	}

	logger = orDefault(logger)
	logger.Info("running sweep", "param", sweep.ParamName, "min", sweep.Min, "max", sweep.Max, "steps", sweep.NumSteps)

	results, err := sim.NewEnsemble(experiment.Factory(registry, logger), sweep.Workers).Run(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(results))
	for i, r := range results {
		out[i] = SweepResult{
			ParamValue:          values[i],
			Efficiency:          r.Efficiency,
			EnergyOut:           r.EnergyOut,
			EnergyIn:            r.EnergyIn,
			MeanElectricalPower: r.MeanElectricalPower(),
			MeanTorque:          r.Metrics["mean_torque"],
		}
		logger.Debug("sweep point", "index", i+1, "param", sweep.ParamName, "value", values[i], "efficiency", r.Efficiency)
	}
	return out, nil
}
