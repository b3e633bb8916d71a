package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/pendsim/internal/dynamo"
)

type simpleDynamics struct{}

func (s *simpleDynamics) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *simpleDynamics) StateDim() int { return 2 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &simpleDynamics{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
	}
}

func TestRK4DoesNotMutateInput(t *testing.T) {
	integ := NewRK4()
	x := dynamo.State{0.3, -0.2}

	_ = integ.Step(&simpleDynamics{}, x, 0, 0.1)

	if x[0] != 0.3 || x[1] != -0.2 {
		t.Errorf("input state mutated: %v", x)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	integ := NewEuler()

	x := integ.Step(&simpleDynamics{}, dynamo.State{1, 0}, 0, 0.1)

	if x[0] != 1.0 || math.Abs(x[1]+0.1) > 1e-15 {
		t.Errorf("unexpected euler step: %v", x)
	}
}

func TestVerletEnergyBounded(t *testing.T) {
	for name, integ := range map[string]dynamo.Integrator{
		"verlet":   NewVerlet(),
		"leapfrog": NewLeapfrog(),
	} {
		t.Run(name, func(t *testing.T) {
			dyn := &simpleDynamics{}
			x := dynamo.State{1.0, 0.0}
			dt := 0.01

			maxDrift := 0.0
			for i := 0; i < 10000; i++ {
				x = integ.Step(dyn, x, float64(i)*dt, dt)
				e := 0.5 * (x[0]*x[0] + x[1]*x[1])
				maxDrift = math.Max(maxDrift, math.Abs(e-0.5)/0.5)
			}

			if maxDrift > 1e-4 {
				t.Errorf("%s energy drift too large: %e", name, maxDrift)
			}
		})
	}
}

type decay struct{}

func (decay) Derive(x dynamo.State, t float64) dynamo.State { return dynamo.State{-x[0]} }
func (decay) StateDim() int                                 { return 1 }

func TestRK4ReusedAcrossDimensions(t *testing.T) {
	integ := NewRK4()

	x := integ.Step(&simpleDynamics{}, dynamo.State{1, 0}, 0, 0.1)
	if len(x) != 2 {
		t.Fatalf("expected 2 components, got %d", len(x))
	}

	y := integ.Step(decay{}, dynamo.State{1}, 0, 0.1)
	if len(y) != 1 {
		t.Fatalf("expected 1 component, got %d", len(y))
	}
	if math.Abs(y[0]-math.Exp(-0.1)) > 1e-6 {
		t.Errorf("decay step: got %.10f, expected %.10f", y[0], math.Exp(-0.1))
	}
}
