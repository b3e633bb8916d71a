package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/export"
	"github.com/san-kum/pendsim/internal/render"
	"github.com/san-kum/pendsim/internal/viz"
)

var (
	once         bool
	showSpectrum bool
	showPhase    bool
	frame        int
	chartWidth   int
	chartHeight  int
	chartFormat  string
	exportFormat string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "solve and animate the pendulum in the terminal",
		RunE:  playAnimation,
	}
	cmd.Flags().BoolVar(&once, "once", false, "play a single pass instead of looping")
	return cmd
}

func playAnimation(cmd *cobra.Command, args []string) error {
	anim, _, err := solve(cmd.Context())
	if err != nil {
		return err
	}
	return viz.Play(cmd.Context(), anim, cfg.Loop && !once)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "solve and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := experiment.New(cfg)
			if err != nil {
				return err
			}
			report, err := exp.Run(cmd.Context())
			if err != nil {
				return err
			}

			res := report.Result
			fmt.Printf("integrator:   %s\n", cfg.Integrator)
			fmt.Printf("samples:      %d over %.2fs\n", res.Trajectory.Len(), cfg.SimulationDuration)
			fmt.Printf("elapsed:      %v\n", report.Elapsed)
			fmt.Printf("steps:        %d (rejected %d)\n", res.Steps, res.Rejected)
			fmt.Println()

			names := make([]string, 0, len(res.Metrics))
			for name := range res.Metrics {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Printf("%-20s %14s\n", "Metric", "Value")
			fmt.Println(strings.Repeat("-", 35))
			for _, name := range names {
				fmt.Printf("%-20s %14s\n", name, formatValue(res.Metrics[name]))
			}
			fmt.Printf("%-20s %14s\n", "first_crossing", formatValue(report.FirstCrossing))
			fmt.Printf("%-20s %14s\n", "dominant_period", formatValue(report.DominantPeriod))
			fmt.Printf("%-20s %14s\n", "crossing_period", formatValue(report.CrossingPeriod))
			fmt.Printf("%-20s %14s\n", "small_angle_period", formatValue(report.SmallAnglePeriod))

			if showSpectrum {
				return printSpectrum(res.Trajectory)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSpectrum, "spectrum", false, "print the power spectrum of θ(t)")
	return cmd
}

func printSpectrum(traj *dynamo.Trajectory) error {
	if traj.Len() < 2 {
		return analysis.ErrTooShort
	}
	sp, err := analysis.NewSpectrum(traj.Component(0), traj.Times[1]-traj.Times[0])
	if err != nil {
		return err
	}

	// low end of the spectrum only, the pendulum lives below a few Hz
	n := len(sp.Power) / 8
	if n < 2 {
		n = len(sp.Power)
	}
	power := sp.Power[:n]

	fmt.Println()
	fmt.Println(asciigraph.Plot(power,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("power spectrum of θ, 0 to %.2f Hz", sp.Freqs[n-1])),
	))

	if f, err := sp.Peak(); err == nil {
		fmt.Printf("\npeak: %.4f Hz (period %.4fs)\n", f, 1/f)
	}
	return nil
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "print the θ(t) chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			anim, res, err := solve(cmd.Context())
			if err != nil {
				return err
			}

			if showPhase {
				points := analysis.PhasePortrait(res.Trajectory)
				fmt.Println(analysis.PhasePortraitToASCII(points, chartWidth, chartHeight))
				return nil
			}

			chart, err := viz.AngleChart(anim, frame, chartWidth, chartHeight)
			if err != nil {
				return err
			}
			fmt.Println(chart)
			return nil
		},
	}
	cmd.Flags().IntVar(&frame, "frame", 0, "sample index of the marker")
	cmd.Flags().IntVar(&chartWidth, "width", 70, "chart width in columns")
	cmd.Flags().IntVar(&chartHeight, "height", 15, "chart height in rows")
	cmd.Flags().BoolVar(&showPhase, "phase", false, "print the phase portrait (θ, ω) instead")
	return cmd
}

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "write a θ(t) chart image to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			anim, _, err := solve(cmd.Context())
			if err != nil {
				return err
			}
			return export.WriteChart(os.Stdout, anim, frame, chartFormat)
		},
	}
	cmd.Flags().StringVar(&chartFormat, "format", "png", "image format ("+strings.Join(export.ChartFormats, ", ")+")")
	cmd.Flags().IntVar(&frame, "frame", 0, "sample index of the marker")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "write the trajectory to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := experiment.New(cfg)
			if err != nil {
				return err
			}
			report, err := exp.Run(cmd.Context())
			if err != nil {
				return err
			}

			switch exportFormat {
			case "csv":
				return export.WriteCSV(os.Stdout, report.Result, cfg.Length)
			case "json":
				return export.WriteJSON(os.Stdout, report.Result, export.Meta{
					Integrator: cfg.Integrator,
					Gravity:    cfg.Gravity,
					Length:     cfg.Length,
					Duration:   cfg.SimulationDuration,
				})
			default:
				return fmt.Errorf("unknown export format: %s (use csv or json)", exportFormat)
			}
		},
	}
	cmd.Flags().StringVar(&exportFormat, "format", "csv", "output format (csv, json)")
	return cmd
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "solve with several integrators and compare against " + experiment.Reference,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, elapsed, err := experiment.Compare(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}

			fmt.Printf("θ0=%.3f ω0=%.3f over %.1fs, %d samples\n\n",
				cfg.InitialAngle, cfg.InitialAngularVelocity, cfg.SimulationDuration, cfg.SampleCount)
			fmt.Printf("%-10s %14s %14s %14s %8s %8s\n", "Integrator", "max |Δθ|", "final θ", "energy drift", "steps", "rejected")
			fmt.Println(strings.Repeat("-", 73))
			for _, r := range rows {
				fmt.Printf("%-10s %14.3e %14.6f %14.3e %8d %8d\n",
					r.Integrator, r.MaxDeviation, r.FinalTheta, r.EnergyDrift, r.Steps, r.Rejected)
			}
			fmt.Printf("\ncompleted in %v\n", elapsed)
			return nil
		},
	}
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "measure the period over a range of release amplitudes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(sweepMin > 0) || !(sweepMax > sweepMin) || sweepMax >= math.Pi {
				return &dynamo.ConfigError{
					Field:  "sweep",
					Value:  [2]float64{sweepMin, sweepMax},
					Reason: "need 0 < min < max < π",
				}
			}
			times, err := cfg.TimeGrid()
			if err != nil {
				return err
			}
			if _, err := cfg.NewIntegrator(""); err != nil {
				return err
			}

			newIntegrator := func() dynamo.Integrator {
				integ, _ := cfg.NewIntegrator("")
				return integ
			}
			points, err := analysis.PeriodSweep(cmd.Context(), cfg.Pendulum(), newIntegrator,
				cfg.SimConfig(), analysis.Amplitudes(sweepMin, sweepMax, sweepSteps), times)
			if err != nil {
				return err
			}

			fmt.Printf("%-12s %12s %12s %12s\n", "Amplitude", "Period", "Exact", "Error")
			fmt.Println(strings.Repeat("-", 51))
			periods := make([]float64, len(points))
			for i, pt := range points {
				periods[i] = pt.Period
				fmt.Printf("%-12.4f %12.6f %12.6f %12.2e\n", pt.Amplitude, pt.Period, pt.Exact, math.Abs(pt.Period-pt.Exact))
			}
			fmt.Printf("\nsmall-angle period: %.6f\n\n", analysis.SmallAnglePeriod(cfg.Length, cfg.Gravity))

			if len(periods) > 1 {
				fmt.Println(asciigraph.Plot(periods,
					asciigraph.Height(10),
					asciigraph.Caption("period (s) vs amplitude"),
				))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&sweepMin, "min", 0.1, "smallest amplitude (rad)")
	cmd.Flags().Float64Var(&sweepMax, "max", 3.0, "largest amplitude (rad)")
	cmd.Flags().IntVar(&sweepSteps, "steps", 12, "number of amplitudes")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%-10s %10s %10s %10s\n", "Preset", "θ0", "ω0", "time")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("%-10s %10.3f %10.3f %10.1f\n", name, p.InitialAngle, p.InitialAngularVelocity, p.SimulationDuration)
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Write(os.Stdout)
		},
	}
}

// solve runs the configured experiment and prepares its animation.
func solve(ctx context.Context) (*render.Animation, *dynamo.Result, error) {
	exp, err := experiment.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	report, err := exp.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	res := report.Result
	return render.NewAnimation(res.Trajectory, exp.Pendulum(), cfg.SimulationDuration), res, nil
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.6g", v)
}
