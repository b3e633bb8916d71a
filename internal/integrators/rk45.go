package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0

	// dense output (Hairer & Wanner, contd5)
	d1 = -12715105075.0 / 11282082432.0
	d3 = 87487479700.0 / 32700410799.0
	d4 = -10690763975.0 / 1880347072.0
	d5 = 701980252875.0 / 199316789632.0
	d6 = -1453857185.0 / 822651844.0
	d7 = 69997945.0 / 29380423.0
)

// RK45 is the embedded Dormand-Prince 5(4) pair with step-size control and a
// fourth-order continuous extension for output at arbitrary times.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
	minStep  float64
	maxStep  float64
	maxTries int
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		minStep:  1e-12,
		maxStep:  math.Inf(1),
		maxTries: 64,
	}
}

// WithStepLimits bounds the step sizes the controller may choose.
func (r *RK45) WithStepLimits(minStep, maxStep float64) *RK45 {
	r.minStep = minStep
	r.maxStep = maxStep
	return r
}

// Step takes one fifth-order step of exactly dt without error control.
func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	return r.attempt(dyn, x, t, dt).xNew
}

type dopriStages struct {
	k1, k3, k4, k5, k6, k7 dynamo.State
	xNew                   dynamo.State
}

func (r *RK45) attempt(dyn dynamo.System, x dynamo.State, t, dt float64) dopriStages {
	n := len(x)

	k1 := dyn.Derive(x, t)

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2 := dyn.Derive(x2, t+a2*dt)

	x3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := dyn.Derive(x3, t+a3*dt)

	x4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := dyn.Derive(x4, t+a4*dt)

	x5 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := dyn.Derive(x5, t+a5*dt)

	x6 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := dyn.Derive(x6, t+dt)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := dyn.Derive(xNew, t+dt)

	return dopriStages{k1: k1, k3: k3, k4: k4, k5: k5, k6: k6, k7: k7, xNew: xNew}
}

// errorNorm is the RMS of the embedded error estimate scaled by tol*(1+|x|).
func errorNorm(s dopriStages, x dynamo.State, dt, tol float64) float64 {
	n := len(x)
	sum := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*s.k1[i] + dc3*s.k3[i] + dc4*s.k4[i] + dc5*s.k5[i] + dc6*s.k6[i] + dc7*s.k7[i])
		scale := tol + tol*math.Max(math.Abs(x[i]), math.Abs(s.xNew[i]))
		e := errEst / scale
		sum += e * e
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

// StepAdaptive retries with smaller steps until the local error estimate is
// within tol. It fails with ErrStepTooSmall once dt drops below the minimum
// step, or with ErrInvalidState if the last trials kept producing non-finite
// values. A requested dt already below the minimum, such as the remainder up
// to the end of the grid, is attempted as is and only fails if rejected.
func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.AdaptiveStep, error) {
	dt = math.Min(dt, r.maxStep)
	floor := math.Min(r.minStep, dt)
	rejected := 0
	nonFinite := false

	for try := 0; try < r.maxTries; try++ {
		if dt < floor {
			if nonFinite {
				return dynamo.AdaptiveStep{}, fmt.Errorf("%w: derivative not finite near t=%g", dynamo.ErrInvalidState, t)
			}
			return dynamo.AdaptiveStep{}, fmt.Errorf("%w: dt=%g at t=%g", dynamo.ErrStepTooSmall, dt, t)
		}

		s := r.attempt(dyn, x, t, dt)
		errRatio := errorNorm(s, x, dt, tol)

		if math.IsNaN(errRatio) || math.IsInf(errRatio, 0) || !s.xNew.IsValid() {
			if !x.IsValid() {
				return dynamo.AdaptiveStep{}, dynamo.ErrInvalidState
			}
			nonFinite = true
			dt *= r.minScale
			rejected++
			continue
		}
		nonFinite = false

		if errRatio > 1 {
			scale := math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
			dt *= scale
			rejected++
			continue
		}

		var next float64
		if errRatio > 0 {
			next = dt * math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
		} else {
			next = dt * r.maxScale
		}
		next = math.Min(next, r.maxStep)

		return dynamo.AdaptiveStep{
			X:           s.xNew,
			T0:          t,
			H:           dt,
			NextH:       next,
			Rejected:    rejected,
			Interpolate: denseOutput(x, s, t, dt),
		}, nil
	}

	return dynamo.AdaptiveStep{}, fmt.Errorf("%w: no acceptable step after %d tries at t=%g", dynamo.ErrStepTooSmall, r.maxTries, t)
}

func denseOutput(x dynamo.State, s dopriStages, t0, h float64) func(float64) dynamo.State {
	n := len(x)
	r1 := x.Clone()
	r2 := make(dynamo.State, n)
	r3 := make(dynamo.State, n)
	r4 := make(dynamo.State, n)
	r5 := make(dynamo.State, n)

	for i := 0; i < n; i++ {
		ydiff := s.xNew[i] - x[i]
		bspl := h*s.k1[i] - ydiff
		r2[i] = ydiff
		r3[i] = bspl
		r4[i] = ydiff - h*s.k7[i] - bspl
		r5[i] = h * (d1*s.k1[i] + d3*s.k3[i] + d4*s.k4[i] + d5*s.k5[i] + d6*s.k6[i] + d7*s.k7[i])
	}
	xEnd := s.xNew.Clone()

	return func(t float64) dynamo.State {
		if t == t0+h {
			return xEnd.Clone()
		}
		th := (t - t0) / h
		th1 := 1 - th
		out := make(dynamo.State, n)
		for i := 0; i < n; i++ {
			out[i] = r1[i] + th*(r2[i]+th1*(r3[i]+th*(r4[i]+th1*r5[i])))
		}
		return out
	}
}
