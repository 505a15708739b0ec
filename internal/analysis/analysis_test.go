package analysis

import (
	"math"
	"strings"
	"testing"
)

func TestTorqueSpectrumFindsTone(t *testing.T) {
	dt := 0.05
	n := 2048
	freq := 0.5 // Hz, well inside Nyquist (10 Hz)

	series := make([]float64, n)
	for i := range series {
		series[i] = 1000 + 50*math.Sin(2*math.Pi*freq*float64(i)*dt)
	}

	spec, err := TorqueSpectrum(series, dt)
	if err != nil {
		t.Fatal(err)
	}

	binWidth := 1 / (float64(n) * dt)
	if math.Abs(spec.DominantFrequency-freq) > binWidth {
		t.Errorf("dominant frequency = %v, want %v ± %v", spec.DominantFrequency, freq, binWidth)
	}
	if len(spec.Frequencies) != n/2 || len(spec.Magnitudes) != n/2 {
		t.Errorf("expected %d bins, got %d/%d", n/2, len(spec.Frequencies), len(spec.Magnitudes))
	}
}

func TestTorqueSpectrumNonPowerOfTwo(t *testing.T) {
	series := make([]float64, 1000)
	for i := range series {
		series[i] = math.Cos(2 * math.Pi * 2 * float64(i) * 0.01)
	}
	spec, err := TorqueSpectrum(series, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(spec.DominantFrequency-2) > 0.1 {
		t.Errorf("dominant frequency = %v, want 2", spec.DominantFrequency)
	}
}

func TestTorqueSpectrumRejectsInput(t *testing.T) {
	if _, err := TorqueSpectrum([]float64{1, 2}, 0.1); err == nil {
		t.Error("expected error for short series")
	}
	if _, err := TorqueSpectrum(make([]float64, 16), 0); err == nil {
		t.Error("expected error for zero dt")
	}
}

func TestPortrait(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := []float64{0, 1, 4, 9, 16}

	p := NewPortrait("v", xs, "torque", ys, 2)
	if len(p.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(p.Points))
	}

	out := p.ToASCII(20, 10)
	if !strings.Contains(out, "•") {
		t.Error("expected plotted points")
	}
	if !strings.HasPrefix(out, "torque\n") {
		t.Errorf("expected y label first, got %q", out[:10])
	}
	if lines := strings.Count(out, "\n"); lines != 12 {
		t.Errorf("expected 12 lines, got %d", lines)
	}
}

func TestPortraitEmpty(t *testing.T) {
	if NewPortrait("x", nil, "y", nil, 1).ToASCII(10, 10) != "" {
		t.Error("expected empty rendering for no points")
	}
}
