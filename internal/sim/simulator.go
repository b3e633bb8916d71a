package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Simulator integrates a system over a caller-supplied time grid. It is not
// safe for concurrent use; build one per goroutine (see Ensemble).
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	cfg        dynamo.Config
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	logger     *slog.Logger
}

func New(dyn dynamo.System, integrator dynamo.Integrator, cfg dynamo.Config) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		cfg:        cfg,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		logger:     slog.Default(),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) WithLogger(l *slog.Logger) *Simulator {
	if l != nil {
		s.logger = l
	}
	return s
}

// Solve produces one state per entry of times. times must start at 0 and be
// strictly increasing; States[0] is a copy of x0. On failure no trajectory is
// returned.
func (s *Simulator) Solve(ctx context.Context, x0 dynamo.State, times []float64) (*dynamo.Result, error) {
	if err := s.validate(x0, times); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	traj := &dynamo.Trajectory{
		Times:  append([]float64(nil), times...),
		States: make([]dynamo.State, len(times)),
	}
	traj.States[0] = x0.Clone()
	s.emit(traj.States[0], times[0])

	adaptive, isAdaptive := s.integrator.(dynamo.AdaptiveIntegrator)

	s.logger.Debug("solve started",
		"integrator", fmt.Sprintf("%T", s.integrator),
		"adaptive", isAdaptive,
		"samples", len(times),
		"duration", times[len(times)-1],
	)
	start := time.Now()

	var (
		steps, rejected int
		err             error
	)
	if isAdaptive {
		steps, rejected, err = s.solveAdaptive(ctx, adaptive, traj)
	} else {
		steps, err = s.solveFixed(ctx, traj)
	}
	if err != nil {
		s.logger.Debug("solve failed", "err", err, "steps", steps)
		return nil, err
	}

	result := &dynamo.Result{
		Trajectory: traj,
		Metrics:    make(map[string]float64, len(s.metrics)),
		Steps:      steps,
		Rejected:   rejected,
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("solve finished",
		"steps", steps,
		"rejected", rejected,
		"elapsed", time.Since(start),
	)

	return result, nil
}

func (s *Simulator) emit(x dynamo.State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnSample(x, t)
	}
}

func (s *Simulator) validate(x0 dynamo.State, times []float64) error {
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: initial state has %d components, system expects %d",
			dynamo.ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if !x0.IsValid() {
		return &dynamo.ConfigError{Field: "initial_state", Value: x0, Reason: "must be finite"}
	}
	if err := dynamo.CheckGrid(times); err != nil {
		return err
	}
	if !(s.cfg.MaxStep > 0) {
		return &dynamo.ConfigError{Field: "max_step", Value: s.cfg.MaxStep, Reason: "must be positive"}
	}
	if _, ok := s.integrator.(dynamo.AdaptiveIntegrator); ok && !(s.cfg.Tolerance > 0) {
		return &dynamo.ConfigError{Field: "tolerance", Value: s.cfg.Tolerance, Reason: "must be positive for adaptive stepping"}
	}
	return nil
}

// solveFixed splits every grid interval into equal substeps no longer than
// MaxStep so that output lands exactly on the grid.
func (s *Simulator) solveFixed(ctx context.Context, traj *dynamo.Trajectory) (int, error) {
	x := traj.States[0]
	steps := 0

	for i := 1; i < len(traj.Times); i++ {
		select {
		case <-ctx.Done():
			return steps, ctx.Err()
		default:
		}

		t0, t1 := traj.Times[i-1], traj.Times[i]
		n := int(math.Ceil((t1-t0)/s.cfg.MaxStep - 1e-9))
		if n < 1 {
			n = 1
		}
		h := (t1 - t0) / float64(n)

		t := t0
		for k := 0; k < n; k++ {
			x = s.integrator.Step(s.dyn, x, t, h)
			t = t0 + float64(k+1)*h
			steps++
		}

		if s.cfg.ValidateState && !x.IsValid() {
			return steps, &dynamo.SimulationError{Step: i, Time: t1, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}

		traj.States[i] = x
		s.emit(x, t1)
	}

	return steps, nil
}

// solveAdaptive lets the integrator pick its own steps and fills grid points
// from each accepted step's continuous extension.
func (s *Simulator) solveAdaptive(ctx context.Context, integ dynamo.AdaptiveIntegrator, traj *dynamo.Trajectory) (int, int, error) {
	times := traj.Times
	tEnd := times[len(times)-1]
	x := traj.States[0]
	t := times[0]
	h := math.Min(s.cfg.MaxStep, tEnd-t)
	steps, rejected := 0, 0
	next := 1

	for next < len(times) {
		select {
		case <-ctx.Done():
			return steps, rejected, ctx.Err()
		default:
		}

		if t+h > tEnd {
			h = tEnd - t
		}

		step, err := integ.StepAdaptive(s.dyn, x, t, h, s.cfg.Tolerance)
		if err != nil {
			return steps, rejected, &dynamo.SimulationError{Step: steps, Time: t, State: x.Clone(), Wrapped: err}
		}
		steps++
		rejected += step.Rejected

		tNew := t + step.H
		if tEnd-tNew <= 1e-12*math.Max(1, math.Abs(tEnd)) {
			tNew = tEnd
		}

		for next < len(times) && times[next] <= tNew {
			xi := step.Interpolate(times[next])
			if s.cfg.ValidateState && !xi.IsValid() {
				return steps, rejected, &dynamo.SimulationError{Step: steps, Time: times[next], State: xi, Wrapped: dynamo.ErrInvalidState}
			}
			traj.States[next] = xi
			s.emit(xi, times[next])
			next++
		}

		x = step.X
		t = tNew
		h = step.NextH
	}

	return steps, rejected, nil
}
