package integrators

import "github.com/san-kum/kppsim/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta stepper. Stage buffers are
// reused between steps.
type RK4 struct {
	k       [4]dynamo.State
	scratch dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.scratch = make(dynamo.State, n)
}

// stage evaluates f at x + h*prev and stores it in dst.
func (r *RK4) stage(dyn dynamo.System, dst, x, prev dynamo.State, u dynamo.Control, t, h float64) {
	if prev == nil {
		copy(dst, dyn.Derive(x, u, t))
		return
	}
	for i := range x {
		r.scratch[i] = x[i] + h*prev[i]
	}
	copy(dst, dyn.Derive(r.scratch, u, t))
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)
	half := dt * 0.5

	r.stage(dyn, r.k[0], x, nil, u, t, 0)
	r.stage(dyn, r.k[1], x, r.k[0], u, t+half, half)
	r.stage(dyn, r.k[2], x, r.k[1], u, t+half, half)
	r.stage(dyn, r.k[3], x, r.k[2], u, t+dt, dt)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return result
}
