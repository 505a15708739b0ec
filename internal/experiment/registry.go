package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/integrators"
	"github.com/san-kum/kppsim/internal/metrics"
	"github.com/san-kum/kppsim/internal/sim"
)

// Registry names the pluggable pieces a run can be assembled from.
type Registry struct {
	metrics map[string]func(config.Params) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(config.Params) sim.Metric),
	}

	r.metrics["peak_torque"] = func(config.Params) sim.Metric { return metrics.NewPeakTorque() }
	r.metrics["mean_torque"] = func(config.Params) sim.Metric { return metrics.NewMeanTorque() }
	r.metrics["torque_ripple"] = func(config.Params) sim.Metric { return metrics.NewTorqueRipple() }
	r.metrics["negative_torque_fraction"] = func(config.Params) sim.Metric { return metrics.NewNegativeTorque() }
	r.metrics["min_net_force"] = func(config.Params) sim.Metric { return metrics.NewMinNetForce() }
	r.metrics["mean_electrical_power"] = func(config.Params) sim.Metric { return metrics.NewMeanElectricalPower() }
	r.metrics["speed_error"] = func(p config.Params) sim.Metric {
		return metrics.NewSpeedError(p.Drivetrain.ChainSpeed)
	}

	return r
}

func (r *Registry) GetMetric(name string, p config.Params) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(p), nil
}

// DefaultMetrics builds a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics(p config.Params) []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name](p))
	}
	return out
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string { return integrators.Names() }

func (r *Registry) ListPresets() []string { return config.ListPresets() }
