package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/kppsim/internal/dynamo"
)

type oscillator struct{}

func (s *oscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *oscillator) StateDim() int   { return 2 }
func (s *oscillator) ControlDim() int { return 0 }

// decay is dv/dt = (u - v) / tau, the shape of the chain speed equation
// under a constant load.
type decay struct{ tau float64 }

func (d *decay) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{(u[0] - x[0]) / d.tau}
}

func (d *decay) StateDim() int   { return 1 }
func (d *decay) ControlDim() int { return 1 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, nil, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestStepperTracksDecay(t *testing.T) {
	const (
		tau    = 0.5
		target = 0.3
		dt     = 0.01
		steps  = 400
	)
	tests := []struct {
		name  string
		integ dynamo.Integrator
		tol   float64
	}{
		{"euler", NewEuler(), 1e-4},
		{"rk4", NewRK4(), 1e-8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dyn := &decay{tau: tau}
			x := dynamo.State{0}
			u := dynamo.Control{target}
			for i := 0; i < steps; i++ {
				x = tt.integ.Step(dyn, x, u, float64(i)*dt, dt)
			}
			want := target * (1 - math.Exp(-steps*dt/tau))
			if math.Abs(x[0]-want) > tt.tol {
				t.Errorf("v(%g) = %v, want %v (±%g)", steps*dt, x[0], want, tt.tol)
			}
		})
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	x := dynamo.State{1.0, 0.0}
	NewRK4().Step(&oscillator{}, x, nil, 0, 0.1)
	NewEuler().Step(&oscillator{}, x, nil, 0, 0.1)
	if x[0] != 1.0 || x[1] != 0.0 {
		t.Errorf("input state mutated: %v", x)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"euler", "rk4"} {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%s): %v", name, err)
		}
	}
	if _, err := ByName("verlet"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}
