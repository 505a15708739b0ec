package experiment

import (
	"context"
	"log/slog"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/sim"
)

// Experiment is a named run with the registry's metrics attached.
type Experiment struct {
	Name      string
	params    config.Params
	simulator *sim.Simulator
}

func New(name string, p config.Params) *Experiment {
	return &Experiment{Name: name, params: p}
}

// Setup builds the simulator. Metric names that are empty select the
// registry defaults.
func (e *Experiment) Setup(reg *Registry, logger *slog.Logger, metricNames ...string) error {
	e.simulator = sim.New().WithLogger(logger)

	if len(metricNames) == 0 {
		for _, m := range reg.DefaultMetrics(e.params) {
			e.simulator.AddMetric(m)
		}
		return nil
	}
	for _, name := range metricNames {
		m, err := reg.GetMetric(name, e.params)
		if err != nil {
			return err
		}
		e.simulator.AddMetric(m)
	}
	return nil
}

// Run executes the experiment. The run itself is not interruptible; ctx is
// only checked before it starts.
func (e *Experiment) Run(ctx context.Context) (*sim.CycleResult, error) {
	if e.simulator == nil {
		if err := e.Setup(NewRegistry(), nil); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.simulator.Run(e.params)
}

func (e *Experiment) Params() config.Params { return e.params }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Factory returns a sim.Ensemble factory that attaches fresh default
// metrics to every simulator it builds.
func Factory(reg *Registry, logger *slog.Logger) sim.Factory {
	return func(p config.Params) *sim.Simulator {
		s := sim.New().WithLogger(logger)
		for _, m := range reg.DefaultMetrics(p) {
			s.AddMetric(m)
		}
		return s
	}
}
