package metrics

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Amplitude tracks max |θ|.
type Amplitude struct {
	max float64
}

func NewAmplitude() *Amplitude { return &Amplitude{} }

func (a *Amplitude) Name() string { return "amplitude" }

func (a *Amplitude) Observe(x dynamo.State, t float64) {
	a.max = math.Max(a.max, math.Abs(x[0]))
}

func (a *Amplitude) Value() float64 { return a.max }
func (a *Amplitude) Reset()         { a.max = 0 }

// ZeroCrossings counts sign changes of θ between consecutive samples and
// records when the first one happens, linearly interpolated.
type ZeroCrossings struct {
	count   int
	first   float64
	prevX   float64
	prevT   float64
	started bool
}

func NewZeroCrossings() *ZeroCrossings { return &ZeroCrossings{first: math.NaN()} }

func (z *ZeroCrossings) Name() string { return "zero_crossings" }

func (z *ZeroCrossings) Observe(x dynamo.State, t float64) {
	theta := x[0]
	if z.started && crosses(z.prevX, theta) {
		if z.count == 0 {
			z.first = z.prevT + (t-z.prevT)*z.prevX/(z.prevX-theta)
		}
		z.count++
	}
	if theta != 0 || !z.started {
		z.prevX, z.prevT = theta, t
	}
	z.started = true
}

// crosses ignores samples sitting exactly on zero so that a touch is counted
// once, when the sign actually flips.
func crosses(a, b float64) bool {
	return (a < 0 && b > 0) || (a > 0 && b < 0)
}

func (z *ZeroCrossings) Value() float64 { return float64(z.count) }

// First returns the time of the first crossing, NaN if none was seen.
func (z *ZeroCrossings) First() float64 { return z.first }

func (z *ZeroCrossings) Reset() {
	*z = ZeroCrossings{first: math.NaN()}
}
