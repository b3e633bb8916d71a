package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/integrators"
	"github.com/san-kum/pendsim/internal/physics"
)

var (
	configFile string
	preset     string
	logLevel   string

	gravity    float64
	length     float64
	theta      float64
	omega      float64
	duration   float64
	samples    int
	integrator string
	tolerance  float64
	maxStep    float64

	// effective configuration, resolved before every command
	cfg *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("pendsim failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pendsim",
		Short:         "simple pendulum simulator",
		Long:          "Integrates the simple pendulum over a fixed time grid and animates the result on the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			cfg = resolved
			setupLogging(cfg.LogLevel)
			slog.Debug("configuration resolved",
				"preset", preset,
				"config", configFile,
				"integrator", cfg.Integrator,
				"samples", cfg.SampleCount,
			)
			return nil
		},
		RunE: playAnimation,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a preset ("+strings.Join(config.ListPresets(), ", ")+")")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.Float64Var(&gravity, "gravity", physics.DefaultGravity, "gravitational acceleration (m/s^2)")
	pf.Float64Var(&length, "length", physics.DefaultLength, "rod length (m)")
	pf.Float64Var(&theta, "theta", config.DefaultTheta, "initial angle (rad)")
	pf.Float64Var(&omega, "omega", config.DefaultOmega, "initial angular velocity (rad/s)")
	pf.Float64Var(&duration, "time", config.DefaultDuration, "simulated duration (s)")
	pf.IntVar(&samples, "samples", config.DefaultSamples, "number of output samples")
	pf.StringVar(&integrator, "integrator", integrators.Default, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	pf.Float64Var(&tolerance, "tolerance", config.DefaultTolerance, "error tolerance for rk45")
	pf.Float64Var(&maxStep, "max-step", config.DefaultMaxStep, "largest internal step (s)")

	rootCmd.AddCommand(
		newPlayCmd(),
		newRunCmd(),
		newPlotCmd(),
		newChartCmd(),
		newExportCmd(),
		newCompareCmd(),
		newSweepCmd(),
		newPresetsCmd(),
		newConfigCmd(),
	)

	return rootCmd
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, later layers winning.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.DefaultConfig()

	if preset != "" {
		c = config.GetPreset(preset)
		if c == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := c.Overlay(configFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("gravity") {
		c.Gravity = gravity
	}
	if flags.Changed("length") {
		c.Length = length
	}
	if flags.Changed("theta") {
		c.InitialAngle = theta
	}
	if flags.Changed("omega") {
		c.InitialAngularVelocity = omega
	}
	if flags.Changed("time") {
		c.SimulationDuration = duration
	}
	if flags.Changed("samples") {
		c.SampleCount = samples
	}
	if flags.Changed("integrator") {
		c.Integrator = integrator
	}
	if flags.Changed("tolerance") {
		c.Tolerance = tolerance
	}
	if flags.Changed("max-step") {
		c.MaxStep = maxStep
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func setupLogging(level string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	})))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
