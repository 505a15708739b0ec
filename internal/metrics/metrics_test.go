package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/kppsim/internal/sim"
)

func feed(m sim.Metric, torques ...float64) {
	for i, tq := range torques {
		m.Observe(sim.Sample{Time: float64(i), NetTorque: tq, NetForce: tq, ElectricalPower: tq, ChainSpeed: tq})
	}
}

func TestTorqueMetrics(t *testing.T) {
	tests := []struct {
		metric   sim.Metric
		input    []float64
		expected float64
	}{
		{NewPeakTorque(), []float64{1, 5, 3}, 5},
		{NewPeakTorque(), []float64{-4, -2, -3}, -2},
		{NewMeanTorque(), []float64{2, 4, 6}, 4},
		{NewNegativeTorque(), []float64{1, -1, 2, -2}, 0.5},
		{NewMinNetForce(), []float64{3, -7, 2}, -7},
		{NewMeanElectricalPower(), []float64{100, 200}, 150},
		{NewSpeedError(1), []float64{1, 1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.metric.Name(), func(t *testing.T) {
			feed(tt.metric, tt.input...)
			if got := tt.metric.Value(); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("%s = %v, want %v", tt.metric.Name(), got, tt.expected)
			}
		})
	}
}

func TestTorqueRipple(t *testing.T) {
	m := NewTorqueRipple()
	feed(m, 100, 100, 100)
	if m.Value() != 0 {
		t.Errorf("constant torque should have zero ripple, got %v", m.Value())
	}

	m.Reset()
	feed(m, 90, 110)
	// sample std of {90, 110} is 14.142; mean 100
	if math.Abs(m.Value()-0.14142135623730953) > 1e-9 {
		t.Errorf("ripple = %v", m.Value())
	}
}

func TestReset(t *testing.T) {
	metrics := []sim.Metric{
		NewPeakTorque(), NewMeanTorque(), NewTorqueRipple(), NewNegativeTorque(),
		NewMinNetForce(), NewMeanElectricalPower(), NewSpeedError(0.3),
	}
	for _, m := range metrics {
		feed(m, -5, 10, 20)
		m.Reset()
		if m.Value() != 0 {
			t.Errorf("%s: expected 0 after reset, got %v", m.Name(), m.Value())
		}
	}
}
