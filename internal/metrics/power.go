package metrics

import (
	"math"

	"github.com/san-kum/kppsim/internal/sim"
)

type MeanElectricalPower struct {
	name    string
	sum     float64
	samples int
}

func NewMeanElectricalPower() *MeanElectricalPower {
	return &MeanElectricalPower{name: "mean_electrical_power"}
}

func (m *MeanElectricalPower) Name() string { return m.name }

func (m *MeanElectricalPower) Observe(s sim.Sample) {
	m.sum += s.ElectricalPower
	m.samples++
}

func (m *MeanElectricalPower) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanElectricalPower) Reset() {
	m.sum = 0
	m.samples = 0
}

// SpeedError is the RMS deviation of the chain speed from a target. It is
// only informative in dynamic mode; at fixed speed it is 0.
type SpeedError struct {
	name    string
	target  float64
	sumSq   float64
	samples int
}

func NewSpeedError(target float64) *SpeedError {
	return &SpeedError{name: "speed_error", target: target}
}

func (e *SpeedError) Name() string { return e.name }

func (e *SpeedError) Observe(s sim.Sample) {
	d := s.ChainSpeed - e.target
	e.sumSq += d * d
	e.samples++
}

func (e *SpeedError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

func (e *SpeedError) Reset() {
	e.sumSq = 0
	e.samples = 0
}
