package dynamo

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateIsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{"finite", State{0.5, -1.0}, true},
		{"nan", State{math.NaN(), 0}, false},
		{"inf", State{0, math.Inf(1)}, false},
		{"empty", State{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.IsValid())
		})
	}
}

func TestStateClone(t *testing.T) {
	s := State{1, 2}
	c := s.Clone()
	c[0] = 10

	assert.Equal(t, 1.0, s[0], "clone must not alias the original")
}

func TestStateSubNorm(t *testing.T) {
	d := State{3, 4}.Sub(State{0, 0})
	assert.InDelta(t, 5.0, d.Norm(), 1e-12)
}

func TestTrajectoryComponent(t *testing.T) {
	tr := &Trajectory{
		Times:  []float64{0, 1},
		States: []State{{0.1, 1}, {0.2, 2}},
	}

	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, []float64{0.1, 0.2}, tr.Component(0))
	assert.Equal(t, []float64{1, 2}, tr.Component(1))
}

func TestTimeGrid(t *testing.T) {
	grid, err := TimeGrid(20, 2000)
	require.NoError(t, err)

	require.Len(t, grid, 2000)
	assert.Equal(t, 0.0, grid[0])
	assert.Equal(t, 20.0, grid[len(grid)-1])
	assert.NoError(t, CheckGrid(grid))
}

func TestTimeGrid_SingleSample(t *testing.T) {
	grid, err := TimeGrid(5, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, grid)
}

func TestTimeGrid_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		n        int
		field    string
	}{
		{"zero samples", 20, 0, "sample_count"},
		{"negative samples", 20, -5, "sample_count"},
		{"zero duration", 0, 10, "simulation_duration"},
		{"nan duration", math.NaN(), 10, "simulation_duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TimeGrid(tt.duration, tt.n)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestCheckGrid(t *testing.T) {
	assert.Error(t, CheckGrid(nil))
	assert.Error(t, CheckGrid([]float64{0.5, 1}))
	assert.Error(t, CheckGrid([]float64{0, 1, 1}))
	assert.NoError(t, CheckGrid([]float64{0}))
}

func TestSimulationErrorUnwrap(t *testing.T) {
	err := &SimulationError{Step: 3, Time: 0.25, Wrapped: ErrInvalidState}

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Contains(t, err.Error(), "step 3")
}
