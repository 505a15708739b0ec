package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/kppsim/internal/dynamo"
)

// Euler is the explicit first-order stepper. With the chain's single speed
// state it is exact for constant net force and within a few percent of RK4
// at the default dt.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

// Step returns x + dt·f(x, u, t) in a new slice.
func (Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	next := make(dynamo.State, len(x))
	floats.AddScaledTo(next, x, dt, dx)
	return next
}
