package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// TimeGrid returns n equally spaced sample times spanning [0, duration].
// The first element is exactly 0 and, for n > 1, the last is exactly duration.
func TimeGrid(duration float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, &ConfigError{Field: "sample_count", Value: n, Reason: "must be positive"}
	}
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil, &ConfigError{Field: "simulation_duration", Value: duration, Reason: "must be a positive finite number"}
	}
	if n == 1 {
		return []float64{0}, nil
	}
	grid := floats.Span(make([]float64, n), 0, duration)
	grid[n-1] = duration
	return grid, nil
}

// CheckGrid verifies that times starts at 0 and is strictly increasing.
func CheckGrid(times []float64) error {
	if len(times) == 0 {
		return fmt.Errorf("%w: empty time grid", ErrInvalidConfig)
	}
	if times[0] != 0 {
		return fmt.Errorf("%w: time grid must start at 0, got %g", ErrInvalidConfig, times[0])
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return fmt.Errorf("%w: time grid not strictly increasing at index %d", ErrInvalidConfig, i)
		}
	}
	return nil
}
