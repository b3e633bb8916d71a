package integrators

import "github.com/san-kum/pendsim/internal/dynamo"

// Verlet and Leapfrog are second-order symplectic methods for states laid out
// as [q..., v...] whose acceleration depends on q only. For the pendulum that
// is (θ, ω), and the energy error stays bounded instead of growing.

// Verlet is velocity Verlet.
type Verlet struct {
	buf dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	half := len(x) / 2
	a0 := dyn.Derive(x, t)

	out := make(dynamo.State, len(x))
	for i := 0; i < half; i++ {
		out[i] = x[i] + dt*(x[half+i]+0.5*dt*a0[half+i])
	}

	a1 := accel(dyn, &v.buf, out[:half], x[half:], t+dt)
	for i := 0; i < half; i++ {
		out[half+i] = x[half+i] + 0.5*dt*(a0[half+i]+a1[i])
	}

	return out
}

// Leapfrog is the kick-drift-kick form.
type Leapfrog struct {
	buf dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	half := len(x) / 2
	a0 := dyn.Derive(x, t)

	vHalf := make([]float64, half)
	for i := 0; i < half; i++ {
		vHalf[i] = x[half+i] + 0.5*dt*a0[half+i]
	}

	out := make(dynamo.State, len(x))
	for i := 0; i < half; i++ {
		out[i] = x[i] + dt*vHalf[i]
	}

	a1 := accel(dyn, &l.buf, out[:half], vHalf, t+dt)
	for i := 0; i < half; i++ {
		out[half+i] = vHalf[i] + 0.5*dt*a1[i]
	}

	return out
}

// accel evaluates the velocity half of the derivative at (q, v), assembling
// the state in buf.
func accel(dyn dynamo.System, buf *dynamo.State, q, v []float64, t float64) []float64 {
	n := len(q) + len(v)
	if len(*buf) != n {
		*buf = make(dynamo.State, n)
	}
	copy(*buf, q)
	copy((*buf)[len(q):], v)
	return dyn.Derive(*buf, t)[len(q):]
}
