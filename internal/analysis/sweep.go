package analysis

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/sim"
)

// SweepPoint pairs a release amplitude with the measured and exact periods.
type SweepPoint struct {
	Amplitude float64
	Period    float64
	Exact     float64
}

// PeriodSweep releases the pendulum from rest at each amplitude and measures
// the period from zero crossings. newIntegrator is called once per run.
func PeriodSweep(
	ctx context.Context,
	p *physics.Pendulum,
	newIntegrator func() dynamo.Integrator,
	cfg dynamo.Config,
	amplitudes []float64,
	times []float64,
) ([]SweepPoint, error) {
	results := make([]SweepPoint, 0, len(amplitudes))

	for _, a := range amplitudes {
		res, err := sim.New(p, newIntegrator(), cfg).Solve(ctx, dynamo.State{a, 0}, times)
		if err != nil {
			return nil, fmt.Errorf("amplitude %.3f: %w", a, err)
		}

		period, err := CrossingPeriod(res.Trajectory.Times, res.Trajectory.Component(0))
		if err != nil {
			return nil, fmt.Errorf("amplitude %.3f: %w", a, err)
		}

		results = append(results, SweepPoint{
			Amplitude: a,
			Period:    period,
			Exact:     ExactPeriod(p.Length, p.Gravity, a),
		})
	}

	return results, nil
}

// Amplitudes returns n evenly spaced amplitudes in [lo, hi].
func Amplitudes(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}
