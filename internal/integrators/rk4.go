package integrators

import "github.com/san-kum/pendsim/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta stepper. It reuses scratch
// buffers between steps, so one instance must not be shared across goroutines.
type RK4 struct {
	k   [4]dynamo.State
	buf dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	if len(r.buf) != n {
		for i := range r.k {
			r.k[i] = make(dynamo.State, n)
		}
		r.buf = make(dynamo.State, n)
	}

	copy(r.k[0], dyn.Derive(x, t))
	r.stage(dyn, r.k[1], x, r.k[0], 0.5*dt, t+0.5*dt)
	r.stage(dyn, r.k[2], x, r.k[1], 0.5*dt, t+0.5*dt)
	r.stage(dyn, r.k[3], x, r.k[2], dt, t+dt)

	out := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		out[i] = x[i] + dt/6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return out
}

// stage stores f(x + h*prev, t) in dst.
func (r *RK4) stage(dyn dynamo.System, dst, x, prev dynamo.State, h, t float64) {
	for i := range x {
		r.buf[i] = x[i] + h*prev[i]
	}
	copy(dst, dyn.Derive(r.buf, t))
}
