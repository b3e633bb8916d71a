package metrics

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Energy reports the mean energy over all observed samples. Systems that do
// not implement dynamo.Hamiltonian report 0.
type Energy struct {
	name    string
	sys     dynamo.System
	total   float64
	samples int
}

func NewEnergy(sys dynamo.System) *Energy {
	return &Energy{name: "energy", sys: sys}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, t float64) {
	h, ok := e.sys.(dynamo.Hamiltonian)
	if !ok {
		return
	}
	e.total += h.Energy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation of energy from the first
// sample. A zero initial energy falls back to absolute deviation.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
	sys           dynamo.System
}

func NewEnergyDrift(sys dynamo.System) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		sys:  sys,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	h, ok := e.sys.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	energy := h.Energy(x)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	drift := math.Abs(energy - e.initialEnergy)
	if e.initialEnergy != 0 {
		drift /= math.Abs(e.initialEnergy)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
