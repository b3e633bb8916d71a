package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/sim"
)

type recorder struct {
	times []float64
}

func (r *recorder) OnSample(_ dynamo.State, t float64) { r.times = append(r.times, t) }

type maxAngle struct {
	max float64
}

func (m *maxAngle) Name() string { return "max_angle" }
func (m *maxAngle) Observe(x dynamo.State, _ float64) {
	m.max = math.Max(m.max, math.Abs(x[0]))
}
func (m *maxAngle) Value() float64 { return m.max }
func (m *maxAngle) Reset()         { m.max = 0 }

type runaway struct{}

func (runaway) StateDim() int { return 2 }
func (runaway) Derive(x dynamo.State, t float64) dynamo.State {
	if t > 0.5 {
		return dynamo.State{math.NaN(), math.NaN()}
	}
	return dynamo.State{x[1], 0}
}

func solve(integ dynamo.Integrator, x0 dynamo.State, duration float64, samples int) *dynamo.Result {
	times, err := dynamo.TimeGrid(duration, samples)
	Expect(err).NotTo(HaveOccurred())
	cfg := dynamo.DefaultConfig()
	cfg.MaxStep = 0.01
	res, err := sim.New(physics.NewPendulum(), integ, cfg).Solve(context.Background(), x0, times)
	Expect(err).NotTo(HaveOccurred())
	return res
}

func newRK45() dynamo.Integrator {
	return integrators.NewRK45().WithStepLimits(1e-12, 0.01)
}

var _ = Describe("Simulator", func() {
	var (
		p  *physics.Pendulum
		x0 dynamo.State
	)

	BeforeEach(func() {
		p = physics.NewPendulum()
		x0 = dynamo.State{math.Pi / 4, 0}
	})

	Context("with the default 20 s, 2000 sample grid", func() {
		for _, name := range []string{"rk4", "rk45"} {
			name := name
			It("keeps lengths aligned and the first state exact using "+name, func() {
				var integ dynamo.Integrator = integrators.NewRK4()
				if name == "rk45" {
					integ = newRK45()
				}
				res := solve(integ, x0, 20, 2000)

				Expect(res.Trajectory.Len()).To(Equal(2000))
				Expect(res.Trajectory.Times).To(HaveLen(2000))
				Expect(res.Trajectory.States[0]).To(Equal(x0))
				Expect(res.Trajectory.Times[0]).To(Equal(0.0))
				Expect(res.Trajectory.Times[1999]).To(BeNumerically("~", 20, 1e-12))
			})

			It("conserves energy using "+name, func() {
				var integ dynamo.Integrator = integrators.NewRK4()
				if name == "rk45" {
					integ = newRK45()
				}
				res := solve(integ, x0, 20, 2000)

				e0 := p.Energy(res.Trajectory.States[0])
				for _, s := range res.Trajectory.States {
					Expect(math.Abs(p.Energy(s)-e0) / math.Abs(e0)).To(BeNumerically("<", 1e-2))
				}
			})
		}

		It("stays bounded and smooth below the separatrix", func() {
			res := solve(newRK45(), x0, 20, 2000)
			prev := res.Trajectory.States[0][0]
			for _, s := range res.Trajectory.States {
				Expect(math.Abs(s[0])).To(BeNumerically("<", math.Pi))
				Expect(math.Abs(s[0])).To(BeNumerically("<=", math.Pi/4+1e-6))
				Expect(math.Abs(s[0] - prev)).To(BeNumerically("<", 0.05))
				prev = s[0]
			}
		})

		It("agrees between rk4 and rk45", func() {
			a := solve(integrators.NewRK4(), x0, 20, 2000)
			b := solve(newRK45(), x0, 20, 2000)
			for i := range a.Trajectory.States {
				Expect(a.Trajectory.States[i][0]).To(BeNumerically("~", b.Trajectory.States[i][0], 1e-3))
			}
		})
	})

	It("tracks the default scenario with both integrators", func() {
		start := dynamo.State{0, 1}
		a := solve(integrators.NewRK4(), start, 20, 2000)
		b := solve(newRK45(), start, 20, 2000)

		Expect(a.Trajectory.States[0]).To(Equal(start))
		Expect(b.Trajectory.States[0]).To(Equal(start))
		for i := range b.Trajectory.States {
			Expect(math.Abs(b.Trajectory.States[i][0])).To(BeNumerically("<", math.Pi))
			Expect(a.Trajectory.States[i][0]).To(BeNumerically("~", b.Trajectory.States[i][0], 1e-3))
			if i > 0 {
				Expect(math.Abs(b.Trajectory.States[i][0] - b.Trajectory.States[i-1][0])).To(BeNumerically("<", 0.02))
			}
		}
	})

	It("leaves a pendulum at rest untouched", func() {
		res := solve(newRK45(), dynamo.State{0, 0}, 5, 100)
		for _, s := range res.Trajectory.States {
			Expect(s[0]).To(BeNumerically("~", 0, 1e-12))
			Expect(s[1]).To(BeNumerically("~", 0, 1e-12))
		}
	})

	It("is deterministic", func() {
		a := solve(newRK45(), x0, 10, 500)
		b := solve(newRK45(), x0, 10, 500)
		Expect(a.Trajectory.States).To(Equal(b.Trajectory.States))
	})

	It("returns only the initial state for a single sample", func() {
		res := solve(integrators.NewRK4(), x0, 20, 1)
		Expect(res.Trajectory.Len()).To(Equal(1))
		Expect(res.Trajectory.States[0]).To(Equal(x0))
	})

	It("notifies observers and metrics once per sample in order", func() {
		times, err := dynamo.TimeGrid(2, 50)
		Expect(err).NotTo(HaveOccurred())

		rec := &recorder{}
		m := &maxAngle{}
		s := sim.New(p, newRK45(), dynamo.DefaultConfig())
		s.AddObserver(rec)
		s.AddMetric(m)

		res, err := s.Solve(context.Background(), x0, times)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.times).To(Equal(times))
		Expect(res.Metrics).To(HaveKeyWithValue("max_angle", BeNumerically("~", math.Pi/4, 1e-9)))
	})

	Describe("failures", func() {
		It("rejects a state of the wrong dimension", func() {
			times, _ := dynamo.TimeGrid(1, 10)
			_, err := sim.New(p, integrators.NewRK4(), dynamo.DefaultConfig()).
				Solve(context.Background(), dynamo.State{1}, times)
			Expect(errors.Is(err, dynamo.ErrDimensionMismatch)).To(BeTrue())
		})

		It("rejects a grid that does not start at zero", func() {
			_, err := sim.New(p, integrators.NewRK4(), dynamo.DefaultConfig()).
				Solve(context.Background(), x0, []float64{1, 2, 3})
			Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
		})

		It("reports a non-finite state from a fixed-step run", func() {
			times, _ := dynamo.TimeGrid(1, 11)
			res, err := sim.New(runaway{}, integrators.NewRK4(), dynamo.DefaultConfig()).
				Solve(context.Background(), dynamo.State{0, 1}, times)
			Expect(res).To(BeNil())

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
		})

		It("reports a non-finite state from an adaptive run", func() {
			times, _ := dynamo.TimeGrid(1, 11)
			res, err := sim.New(runaway{}, newRK45(), dynamo.DefaultConfig()).
				Solve(context.Background(), dynamo.State{0, 1}, times)
			Expect(res).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			times, _ := dynamo.TimeGrid(20, 2000)
			_, err := sim.New(p, newRK45(), dynamo.DefaultConfig()).Solve(ctx, x0, times)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("returns one result per member in order", func() {
		cfg := dynamo.DefaultConfig()
		cfg.MaxStep = 0.01
		p := physics.NewPendulum()
		e := sim.NewEnsemble(
			sim.Member{Name: "rk4", Simulator: sim.New(p, integrators.NewRK4(), cfg)},
			sim.Member{Name: "rk45", Simulator: sim.New(p, newRK45(), cfg)},
			sim.Member{Name: "euler", Simulator: sim.New(p, integrators.NewEuler(), cfg)},
		)
		times, _ := dynamo.TimeGrid(5, 100)

		results, err := e.Run(context.Background(), dynamo.State{0.5, 0}, times)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(e.Len()))
		for _, r := range results {
			Expect(r.Trajectory.Len()).To(Equal(100))
		}
		Expect(results[0].Trajectory.States[99][0]).To(BeNumerically("~", results[1].Trajectory.States[99][0], 1e-4))
	})

	It("names the failing member", func() {
		cfg := dynamo.DefaultConfig()
		e := sim.NewEnsemble(sim.Member{Name: "broken", Simulator: sim.New(runaway{}, integrators.NewRK4(), cfg)})
		times, _ := dynamo.TimeGrid(1, 11)
		_, err := e.Run(context.Background(), dynamo.State{0, 1}, times)
		Expect(err).To(MatchError(ContainSubstring("broken")))
	})
})
