package hypothesis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/kppsim/internal/simerr"
)

func TestBuoyancyPulseTorque(t *testing.T) {
	got := BuoyancyPulseTorque(1000, 0.04, 5, 1.0)
	expected := 392.4 - 49.05
	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("bang torque = %v, want %v", got, expected)
	}

	doubled := BuoyancyPulseTorque(1000, 0.04, 5, 2.0)
	if math.Abs(doubled-2*got) > 1e-9 {
		t.Errorf("torque should scale with radius: %v vs %v", doubled, 2*got)
	}
}

func TestJetPulseTorque(t *testing.T) {
	got, err := JetPulseTorque(1000, 0.04, 0.5, 2.0, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// ṁ = 80 kg/s, F = 160 N
	if math.Abs(got-160) > 1e-9 {
		t.Errorf("jet torque = %v, want 160", got)
	}
}

func TestJetPulseTorqueRejectsFillTime(t *testing.T) {
	for _, ft := range []float64{0, -0.5} {
		_, err := JetPulseTorque(1000, 0.04, ft, 2.0, 1.0)
		var ce *simerr.ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("fill_time=%v: expected ConfigError, got %v", ft, err)
		}
		if ce.Field != "injection.fill_time" {
			t.Errorf("unexpected field %s", ce.Field)
		}
	}
}

func TestTotalInjectionPulse(t *testing.T) {
	p, err := TotalInjectionPulse(PulseInput{
		WaterDensity:      1000,
		InjectedAirVolume: 0.04,
		ShellMass:         5,
		SprocketRadius:    1.0,
		FillTime:          0.5,
		JetVelocity:       2.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(p.Torque-(p.BuoyancyTorque+p.JetTorque)) > 1e-12 {
		t.Errorf("total %v != bang %v + jet %v", p.Torque, p.BuoyancyTorque, p.JetTorque)
	}
	if p.Duration != 0.5 {
		t.Errorf("duration = %v, want fill time 0.5", p.Duration)
	}

	if _, err := TotalInjectionPulse(PulseInput{FillTime: 0.5, SprocketRadius: 0}); !errors.Is(err, simerr.ErrConfig) {
		t.Errorf("expected ConfigError for zero radius, got %v", err)
	}
}
