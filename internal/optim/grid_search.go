package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/experiment"
	"github.com/san-kum/kppsim/internal/sim"
	"github.com/san-kum/kppsim/internal/simerr"
)

// GridSearch evaluates every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Maximize flips the search to keep the largest objective value.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Best is the outcome of a search. Params is nil when no combination ran.
type Best struct {
	Params      map[string]float64
	Value       float64
	Evaluations int
	Skipped     int
}

// BuildFunc turns one grid point into a ready experiment.
type BuildFunc func(params map[string]float64) (*experiment.Experiment, error)

// Builder returns a BuildFunc that applies grid values to base.
func Builder(base config.Params, reg *experiment.Registry) BuildFunc {
	return func(values map[string]float64) (*experiment.Experiment, error) {
		p := base
		for name, v := range values {
			if err := p.Set(name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New("grid", p)
		if err := exp.Setup(reg, nil); err != nil {
			return nil, err
		}
		return exp, nil
	}
}

// Objective reads the value to optimize from a result: one of the scalar
// fields below or any metric attached to the run.
func Objective(r *sim.CycleResult, name string) (float64, error) {
	switch name {
	case "efficiency":
		return r.Efficiency, nil
	case "energy_out":
		return r.EnergyOut, nil
	case "mean_electrical_power":
		if v, ok := r.Metrics[name]; ok {
			return v, nil
		}
		return r.MeanElectricalPower(), nil
	}
	v, ok := r.Metrics[name]
	if !ok {
		return 0, fmt.Errorf("unknown objective: %s", name)
	}
	return v, nil
}

// Search runs the grid. Combinations rejected as invalid configurations are
// skipped; any other error aborts the search.
func (g *GridSearch) Search(ctx context.Context, build BuildFunc, objective string) (*Best, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("grid has %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := &Best{Value: math.Inf(1)}
	if g.Maximize {
		best.Value = math.Inf(-1)
	}

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), build, objective, best); err != nil {
		return nil, err
	}
	return best, nil
}

func (g *GridSearch) better(v, than float64) bool {
	if g.Maximize {
		return v > than
	}
	return v < than
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build BuildFunc,
	objective string,
	best *Best,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := build(current)
		if err != nil {
			return err
		}

		result, err := exp.Run(ctx)
		if errors.Is(err, simerr.ErrConfig) {
			best.Skipped++
			return nil
		}
		if err != nil {
			return err
		}
		best.Evaluations++

		val, err := Objective(result, objective)
		if err != nil {
			return err
		}
		if best.Params == nil || g.better(val, best.Value) {
			best.Value = val
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, objective, best); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values over [min, max].
func Linspace(min, max float64, n int) []float64 {
	if n < 2 {
		return []float64{min}
	}
	return floats.Span(make([]float64, n), min, max)
}
