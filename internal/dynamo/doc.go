// Package dynamo provides the ODE primitives used when the chain speed is
// integrated instead of prescribed.
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dx/dt = f(x, u, t))
//   - [Integrator]: numerical stepper
//   - [Controller]: feedback controller computing u from x (the generator load)
//
// # Example
//
//	integ := integrators.NewRK4()
//	x = integ.Step(chain, x, governor.Compute(x, t), t, dt)
//
// Integrators keep scratch buffers and are not safe for concurrent use;
// give every run its own instance.
package dynamo
