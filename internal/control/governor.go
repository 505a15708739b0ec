package control

import (
	"math"

	"github.com/san-kum/kppsim/internal/dynamo"
)

// Gains are the PID coefficients of a Governor, in newtons per m/s
// (Kp), per m (Ki) and per m/s² (Kd).
type Gains struct {
	Kp, Ki, Kd float64
}

// Zero reports whether every gain is zero.
func (g Gains) Zero() bool { return g.Kp == 0 && g.Ki == 0 && g.Kd == 0 }

// Governor holds the chain at a target speed by setting the generator load.
// Its output u[0] is the load in newtons and is never negative: the
// generator brakes the chain but cannot drive it.
//
// While the load sits at zero the integrator is frozen for errors that
// would push it further below zero, so a slow spell does not leave a
// wound-up integral that delays braking once the chain recovers.
type Governor struct {
	gains  Gains
	target float64

	integral float64
	prevErr  float64
	prevT    float64
	started  bool
}

func NewGovernor(g Gains, targetSpeed float64) *Governor {
	return &Governor{gains: g, target: targetSpeed}
}

func (g *Governor) Target() float64 { return g.target }

func (g *Governor) Gains() Gains { return g.gains }

// Retune replaces the gains and clears the controller history.
func (g *Governor) Retune(gains Gains) {
	g.gains = gains
	g.Reset()
}

// Compute returns the load for chain speed x[0] at time t.
func (g *Governor) Compute(x dynamo.State, t float64) dynamo.Control {
	if len(x) == 0 {
		return dynamo.Control{0}
	}

	// Too fast means positive error and more load.
	e := x[0] - g.target
	if !g.started {
		g.started = true
		g.prevErr, g.prevT = e, t
		return dynamo.Control{math.Max(0, g.gains.Kp*e)}
	}

	dt := t - g.prevT
	if dt <= 0 {
		return dynamo.Control{math.Max(0, g.gains.Kp*e+g.gains.Ki*g.integral)}
	}

	derivative := (e - g.prevErr) / dt
	g.prevErr, g.prevT = e, t

	integral := g.integral + e*dt
	u := g.gains.Kp*e + g.gains.Ki*integral + g.gains.Kd*derivative
	if u > 0 || e > 0 {
		g.integral = integral
	}
	return dynamo.Control{math.Max(0, u)}
}

func (g *Governor) Reset() {
	g.integral = 0
	g.prevErr = 0
	g.prevT = 0
	g.started = false
}

// FreeWheel applies no load.
type FreeWheel struct{}

func (FreeWheel) Compute(dynamo.State, float64) dynamo.Control { return dynamo.Control{0} }

// New returns a Governor, or a FreeWheel when every gain is zero.
func New(g Gains, targetSpeed float64) dynamo.Controller {
	if g.Zero() {
		return FreeWheel{}
	}
	return NewGovernor(g, targetSpeed)
}
