package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
)

type plain struct{}

func (plain) Derive(x dynamo.State, t float64) dynamo.State { return x }
func (plain) StateDim() int                                 { return 2 }

func TestEnergyMean(t *testing.T) {
	p := physics.NewPendulum()
	m := NewEnergy(p)

	x := dynamo.State{math.Pi / 4, 0}
	m.Observe(x, 0)
	assert.InDelta(t, p.Energy(x), m.Value(), 1e-12)

	m.Reset()
	assert.Zero(t, m.Value())

	m.Observe(dynamo.State{0, 1}, 0)
	m.Observe(dynamo.State{0, 3}, 0)
	assert.InDelta(t, 0.5*(p.Energy(dynamo.State{0, 1})+p.Energy(dynamo.State{0, 3})), m.Value(), 1e-12)
}

func TestEnergyIgnoresNonHamiltonian(t *testing.T) {
	m := NewEnergy(plain{})
	m.Observe(dynamo.State{1, 1}, 0)
	assert.Zero(t, m.Value())

	d := NewEnergyDrift(plain{})
	d.Observe(dynamo.State{1, 1}, 0)
	assert.Zero(t, d.Value())
}

func TestEnergyDrift(t *testing.T) {
	p := physics.NewPendulum()
	d := NewEnergyDrift(p)

	x0 := dynamo.State{0, 1}
	e0 := p.Energy(x0)
	d.Observe(x0, 0)
	assert.Zero(t, d.Value())

	x1 := dynamo.State{0, 1.1}
	d.Observe(x1, 0.1)
	want := math.Abs(p.Energy(x1)-e0) / math.Abs(e0)
	assert.InDelta(t, want, d.Value(), 1e-12)

	// drift is a running maximum
	d.Observe(x0, 0.2)
	assert.InDelta(t, want, d.Value(), 1e-12)

	d.Reset()
	assert.Zero(t, d.Value())
}

func TestStability(t *testing.T) {
	s := NewStability(math.Pi)
	assert.Equal(t, 1.0, s.Value())

	s.Observe(dynamo.State{0.5, 0}, 0)
	s.Observe(dynamo.State{-3.5, 0}, 0)
	assert.InDelta(t, 0.5, s.Value(), 1e-12)

	s.Reset()
	assert.Equal(t, 1.0, s.Value())
}

func TestAmplitude(t *testing.T) {
	a := NewAmplitude()
	for _, th := range []float64{0.1, -0.7, 0.3} {
		a.Observe(dynamo.State{th, 0}, 0)
	}
	assert.InDelta(t, 0.7, a.Value(), 1e-12)
	a.Reset()
	assert.Zero(t, a.Value())
}

func TestZeroCrossings(t *testing.T) {
	z := NewZeroCrossings()
	assert.True(t, math.IsNaN(z.First()))

	samples := []struct{ t, th float64 }{
		{0, 0}, {1, 1}, {2, 1}, {3, -1}, {4, 0}, {5, -0.5}, {6, 0.5},
	}
	for _, s := range samples {
		z.Observe(dynamo.State{s.th, 0}, s.t)
	}

	assert.Equal(t, 2.0, z.Value())
	assert.InDelta(t, 2.5, z.First(), 1e-12)

	z.Reset()
	assert.Zero(t, z.Value())
	assert.True(t, math.IsNaN(z.First()))
}

func TestZeroCrossingsTouch(t *testing.T) {
	z := NewZeroCrossings()
	for i, th := range []float64{1, 0, 1} {
		z.Observe(dynamo.State{th, 0}, float64(i))
	}
	assert.Zero(t, z.Value())
}
