package analysis

import "math"

// SmallAnglePeriod is the linearised period 2π·sqrt(l/g).
func SmallAnglePeriod(length, gravity float64) float64 {
	return 2 * math.Pi * math.Sqrt(length/gravity)
}

// ExactPeriod is the period of a pendulum released from rest at amplitude,
// using the arithmetic-geometric mean form of the complete elliptic integral.
// It diverges as amplitude approaches π.
func ExactPeriod(length, gravity, amplitude float64) float64 {
	if math.Abs(amplitude) >= math.Pi {
		return math.Inf(1)
	}
	return SmallAnglePeriod(length, gravity) / agm(1, math.Cos(amplitude/2))
}

func agm(a, b float64) float64 {
	for i := 0; i < 64 && math.Abs(a-b) > 1e-15*a; i++ {
		a, b = (a+b)/2, math.Sqrt(a*b)
	}
	return a
}

// CrossingPeriod measures the period from interpolated zero crossings of
// values: twice the mean spacing between consecutive crossings.
func CrossingPeriod(times, values []float64) (float64, error) {
	if len(times) != len(values) || len(times) < 2 {
		return 0, ErrTooShort
	}

	var crossings []float64
	prevT, prevV := times[0], values[0]
	for i := 1; i < len(values); i++ {
		v := values[i]
		if (prevV < 0 && v > 0) || (prevV > 0 && v < 0) {
			crossings = append(crossings, prevT+(times[i]-prevT)*prevV/(prevV-v))
		}
		if v != 0 {
			prevT, prevV = times[i], v
		}
	}

	if len(crossings) < 2 {
		return 0, ErrNoOscillation
	}
	span := crossings[len(crossings)-1] - crossings[0]
	return 2 * span / float64(len(crossings)-1), nil
}
