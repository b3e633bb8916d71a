package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is a first-order ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

// AdaptiveIntegrator takes one error-controlled step. It returns the new state,
// the step actually taken, and the suggested size of the next step.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, t, dt, tol float64) (AdaptiveStep, error)
}

// AdaptiveStep is the outcome of one accepted adaptive step. Interpolate
// evaluates the step's continuous extension at any t in [T0, T0+H].
type AdaptiveStep struct {
	X           State
	T0          float64
	H           float64
	NextH       float64
	Rejected    int
	Interpolate func(t float64) State
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(x State, t float64)
}

type Config struct {
	Tolerance     float64
	MaxStep       float64
	MinStep       float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Tolerance:     1e-9,
		MaxStep:       0.01,
		MinStep:       1e-12,
		ValidateState: true,
	}
}

// Trajectory holds one state per time sample. It is never mutated after a
// solve completes.
type Trajectory struct {
	Times  []float64
	States []State
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

// Component extracts the i-th state variable across all samples.
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		if i < len(s) {
			out[k] = s[i]
		}
	}
	return out
}

type Result struct {
	Trajectory *Trajectory
	Metrics    map[string]float64
	Steps      int
	Rejected   int
}
