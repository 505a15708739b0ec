package sim

import (
	"math"

	"github.com/san-kum/kppsim/internal/dynamo"
)

// chain is the one-dimensional speed equation used in dynamic mode:
//
//	M_eff · dv/dt = F_chain(v) − F_load
//
// Floater states and positions are frozen for the duration of a step; only
// v is integrated. u[0] is the generator load in newtons.
type chain struct {
	plant   *plant
	inertia float64 // flywheel inertia reflected to the chain, kg
}

func newChain(pl *plant) *chain {
	r := pl.radius
	return &chain{plant: pl, inertia: pl.p.Drivetrain.FlywheelInertia / (r * r)}
}

func (c *chain) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	v := math.Max(0, x[0])
	f := c.plant.chainForces(v)
	load := 0.0
	if len(u) > 0 {
		load = u[0]
	}
	return dynamo.State{(f.total() - load) / (f.mass + c.inertia)}
}

func (c *chain) StateDim() int   { return 1 }
func (c *chain) ControlDim() int { return 1 }

// loadFrom reads the generator load from a controller output. The
// generator can only brake, never drive.
func loadFrom(u dynamo.Control) float64 {
	if len(u) == 0 {
		return 0
	}
	return math.Max(0, u[0])
}
