package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

const (
	DefaultGravity = 9.81
	DefaultLength  = 1.0
)

// Pendulum is an undamped simple gravity pendulum. State is (theta, omega)
// with theta measured from the downward vertical.
type Pendulum struct {
	Gravity float64
	Length  float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Gravity: DefaultGravity,
		Length:  DefaultLength,
	}
}

func (p *Pendulum) StateDim() int {
	return 2
}

func (p *Pendulum) Derive(x dynamo.State, t float64) dynamo.State {
	theta := x[0]
	omega := x[1]

	alpha := -(p.Gravity / p.Length) * math.Sin(theta)

	return dynamo.State{omega, alpha}
}

// Energy is the mechanical energy per unit m*L^2: 0.5*omega^2 - (g/L)*cos(theta).
func (p *Pendulum) Energy(x dynamo.State) float64 {
	return 0.5*x[1]*x[1] - (p.Gravity/p.Length)*math.Cos(x[0])
}

func (p *Pendulum) Tip(theta float64) (x, y float64) {
	return p.Length * math.Sin(theta), -p.Length * math.Cos(theta)
}

// SmallAnglePeriod is 2*pi*sqrt(L/g), exact only in the small-amplitude limit.
func (p *Pendulum) SmallAnglePeriod() float64 {
	return 2 * math.Pi * math.Sqrt(p.Length/p.Gravity)
}

func (p *Pendulum) Validate() error {
	if !(p.Gravity > 0) || math.IsInf(p.Gravity, 0) {
		return &dynamo.ConfigError{Field: "gravity", Value: p.Gravity, Reason: "must be a positive finite number"}
	}
	if !(p.Length > 0) || math.IsInf(p.Length, 0) {
		return &dynamo.ConfigError{Field: "length", Value: p.Length, Reason: "must be a positive finite number"}
	}
	return nil
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"length":  p.Length,
		"gravity": p.Gravity,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	if !(value > 0) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s=%g", dynamo.ErrParameterBounds, name, value)
	}
	switch name {
	case "length":
		p.Length = value
	case "gravity":
		p.Gravity = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
