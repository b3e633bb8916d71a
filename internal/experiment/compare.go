package experiment

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/integrators"
	"github.com/san-kum/pendsim/internal/metrics"
	"github.com/san-kum/pendsim/internal/sim"
)

// Reference is the integrator the others are measured against.
const Reference = "rk45"

type Comparison struct {
	Integrator   string
	MaxDeviation float64 // max |Δθ| against the reference over all samples
	FinalTheta   float64
	EnergyDrift  float64
	Steps        int
	Rejected     int
}

// Compare solves cfg once per named integrator, concurrently, and measures
// each against the reference solution. The reference is added if missing.
// Results follow the order of names, reference first if it was added.
func Compare(ctx context.Context, cfg *config.Config, names []string) ([]Comparison, time.Duration, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	if len(names) == 0 {
		names = integrators.Names()
	}
	if !slices.Contains(names, Reference) {
		names = append([]string{Reference}, names...)
	}

	times, err := cfg.TimeGrid()
	if err != nil {
		return nil, 0, err
	}

	p := cfg.Pendulum()
	drifts := make([]*metrics.EnergyDrift, len(names))
	members := make([]sim.Member, len(names))
	for i, name := range names {
		integ, err := cfg.NewIntegrator(name)
		if err != nil {
			return nil, 0, err
		}
		s := sim.New(p, integ, cfg.SimConfig())
		drifts[i] = metrics.NewEnergyDrift(p)
		s.AddMetric(drifts[i])
		members[i] = sim.Member{Name: name, Simulator: s}
	}

	start := time.Now()
	results, err := sim.NewEnsemble(members...).Run(ctx, cfg.InitialState(), times)
	if err != nil {
		return nil, 0, fmt.Errorf("compare: %w", err)
	}
	elapsed := time.Since(start)

	ref := results[slices.Index(names, Reference)].Trajectory
	out := make([]Comparison, len(names))
	for i, res := range results {
		dev := 0.0
		for j, s := range res.Trajectory.States {
			dev = math.Max(dev, math.Abs(s[0]-ref.States[j][0]))
		}
		out[i] = Comparison{
			Integrator:   names[i],
			MaxDeviation: dev,
			FinalTheta:   res.Trajectory.States[res.Trajectory.Len()-1][0],
			EnergyDrift:  drifts[i].Value(),
			Steps:        res.Steps,
			Rejected:     res.Rejected,
		}
	}

	return out, elapsed, nil
}
