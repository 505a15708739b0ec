package hypothesis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/kppsim/internal/simerr"
)

func TestApplyH1DisabledIsIdentity(t *testing.T) {
	tests := []struct {
		density, cd, phi float64
	}{
		{1000, 0.8, 0.2},
		{998.2, 1.1, 0.0},
		{1000, 0.8, 1.5},
		{1025, 0.5, -3},
	}

	for _, tt := range tests {
		d, cd, err := ApplyH1(tt.density, tt.cd, H1{Enabled: false, VoidFraction: tt.phi, DragReduction: 0.3})
		if err != nil {
			t.Errorf("disabled H1 returned error for phi=%v: %v", tt.phi, err)
		}
		if d != tt.density || cd != tt.cd {
			t.Errorf("disabled H1 changed inputs: (%v, %v) -> (%v, %v)", tt.density, tt.cd, d, cd)
		}
	}
}

func TestApplyH1Monotonic(t *testing.T) {
	fractions := []float64{0.05, 0.15, 0.25, 0.40}
	prev := math.Inf(1)
	for _, phi := range fractions {
		d, _, err := ApplyH1(1000, 0.8, H1{Enabled: true, VoidFraction: phi})
		if err != nil {
			t.Fatalf("phi=%v: %v", phi, err)
		}
		if !(d < prev) {
			t.Errorf("density not strictly decreasing at phi=%v: %v >= %v", phi, d, prev)
		}
		prev = d
	}
}

func TestApplyH1Values(t *testing.T) {
	d, cd, err := ApplyH1(1000, 0.8, H1{Enabled: true, VoidFraction: 0.2, DragReduction: 0.25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(d-800) > 1e-9 {
		t.Errorf("density = %v, want 800", d)
	}
	if math.Abs(cd-0.6) > 1e-12 {
		t.Errorf("drag coeff = %v, want 0.6", cd)
	}
}

func TestApplyH1RejectsInvalidVoidFraction(t *testing.T) {
	for _, phi := range []float64{1.0, 1.5, -0.1} {
		d, _, err := ApplyH1(1000, 0.8, H1{Enabled: true, VoidFraction: phi})
		if !errors.Is(err, simerr.ErrConfig) {
			t.Errorf("phi=%v: expected ConfigError, got %v", phi, err)
		}
		if d != 0 {
			t.Errorf("phi=%v: expected no density on error, got %v", phi, d)
		}
	}
}

func TestApplyH1ClampsAboveModelRange(t *testing.T) {
	clamped, _, err := ApplyH1(1000, 0.8, H1{Enabled: true, VoidFraction: 0.7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	limit, _, _ := ApplyH1(1000, 0.8, H1{Enabled: true, VoidFraction: MaxVoidFraction})
	if clamped != limit {
		t.Errorf("expected clamp to %v, got %v", limit, clamped)
	}
}

func TestApplyH1RejectsDragReduction(t *testing.T) {
	_, _, err := ApplyH1(1000, 0.8, H1{Enabled: true, VoidFraction: 0.1, DragReduction: 1})
	var ce *simerr.ConfigError
	if !errors.As(err, &ce) || ce.Field != "h1.drag_reduction" {
		t.Errorf("expected drag_reduction ConfigError, got %v", err)
	}
}
