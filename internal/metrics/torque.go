package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/kppsim/internal/sim"
)

// PeakTorque is the largest net sprocket torque seen.
type PeakTorque struct {
	name string
	peak float64
	seen bool
}

func NewPeakTorque() *PeakTorque {
	return &PeakTorque{name: "peak_torque"}
}

func (p *PeakTorque) Name() string { return p.name }

func (p *PeakTorque) Observe(s sim.Sample) {
	if !p.seen || s.NetTorque > p.peak {
		p.peak = s.NetTorque
		p.seen = true
	}
}

func (p *PeakTorque) Value() float64 { return p.peak }

func (p *PeakTorque) Reset() {
	p.peak = 0
	p.seen = false
}

// torqueSeries keeps the whole torque series for the metrics that need
// more than a running sum.
type torqueSeries struct {
	values []float64
}

func (ts *torqueSeries) Observe(s sim.Sample) { ts.values = append(ts.values, s.NetTorque) }
func (ts *torqueSeries) Reset()               { ts.values = ts.values[:0] }

type MeanTorque struct {
	torqueSeries
}

func NewMeanTorque() *MeanTorque { return &MeanTorque{} }

func (m *MeanTorque) Name() string { return "mean_torque" }

func (m *MeanTorque) Value() float64 {
	if len(m.values) == 0 {
		return 0
	}
	return stat.Mean(m.values, nil)
}

// TorqueRipple is the standard deviation of torque relative to its mean
// magnitude. The flywheel exists to push this down.
type TorqueRipple struct {
	torqueSeries
}

func NewTorqueRipple() *TorqueRipple { return &TorqueRipple{} }

func (r *TorqueRipple) Name() string { return "torque_ripple" }

func (r *TorqueRipple) Value() float64 {
	if len(r.values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(r.values, nil)
	if mean == 0 {
		return 0
	}
	return std / math.Abs(mean)
}

// NegativeTorque is the fraction of samples in which the chain is driven
// backwards.
type NegativeTorque struct {
	name     string
	negative int
	samples  int
}

func NewNegativeTorque() *NegativeTorque {
	return &NegativeTorque{name: "negative_torque_fraction"}
}

func (n *NegativeTorque) Name() string { return n.name }

func (n *NegativeTorque) Observe(s sim.Sample) {
	n.samples++
	if s.NetTorque < 0 {
		n.negative++
	}
}

func (n *NegativeTorque) Value() float64 {
	if n.samples == 0 {
		return 0
	}
	return float64(n.negative) / float64(n.samples)
}

func (n *NegativeTorque) Reset() {
	n.negative = 0
	n.samples = 0
}

// MinNetForce is the lowest chain force seen.
type MinNetForce struct {
	values []float64
}

func NewMinNetForce() *MinNetForce { return &MinNetForce{} }

func (m *MinNetForce) Name() string         { return "min_net_force" }
func (m *MinNetForce) Observe(s sim.Sample) { m.values = append(m.values, s.NetForce) }
func (m *MinNetForce) Reset()               { m.values = m.values[:0] }

func (m *MinNetForce) Value() float64 {
	if len(m.values) == 0 {
		return 0
	}
	return floats.Min(m.values)
}
