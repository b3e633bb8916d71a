package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	pendulum  *physics.Pendulum
	times     []float64
	simulator *sim.Simulator
	probes    Probes
}

// Report is a finished run with the derived measurements. Period fields are
// NaN when they could not be measured.
type Report struct {
	Result           *dynamo.Result
	Elapsed          time.Duration
	FirstCrossing    float64
	DominantPeriod   float64
	CrossingPeriod   float64
	SmallAnglePeriod float64
}

// New validates cfg and wires the pendulum, time grid, integrator and
// simulator for a single run.
func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	times, err := cfg.TimeGrid()
	if err != nil {
		return nil, err
	}

	integ, err := cfg.NewIntegrator("")
	if err != nil {
		return nil, err
	}

	p := cfg.Pendulum()
	e := &Experiment{
		cfg:       cfg,
		pendulum:  p,
		times:     times,
		simulator: sim.New(p, integ, cfg.SimConfig()),
		probes:    DefaultProbes(p),
	}
	for _, m := range e.probes.Metrics {
		e.simulator.AddMetric(m)
	}
	return e, nil
}

func (e *Experiment) Pendulum() *physics.Pendulum { return e.pendulum }

func (e *Experiment) Config() *config.Config { return e.cfg }

// Simulator exposes the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	slog.Debug("running experiment",
		"integrator", e.cfg.Integrator,
		"theta0", e.cfg.InitialAngle,
		"omega0", e.cfg.InitialAngularVelocity,
	)

	start := time.Now()
	res, err := e.simulator.Solve(ctx, e.cfg.InitialState(), e.times)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	report := &Report{
		Result:           res,
		Elapsed:          time.Since(start),
		FirstCrossing:    e.probes.Crossings.First(),
		SmallAnglePeriod: e.pendulum.SmallAnglePeriod(),
	}

	thetas := res.Trajectory.Component(0)
	report.DominantPeriod = measure(analysis.DominantPeriod(res.Trajectory.Times, thetas))
	report.CrossingPeriod = measure(analysis.CrossingPeriod(res.Trajectory.Times, thetas))

	return report, nil
}

// measure turns expected analysis failures into NaN.
func measure(v float64, err error) float64 {
	if err != nil {
		if !errors.Is(err, analysis.ErrNoOscillation) && !errors.Is(err, analysis.ErrTooShort) {
			slog.Warn("period measurement failed", "err", err)
		}
		return math.NaN()
	}
	return v
}
