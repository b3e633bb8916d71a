package config

import (
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
	"github.com/san-kum/pendsim/internal/physics"
)

const (
	DefaultTheta     = 0.0
	DefaultOmega     = 1.0
	DefaultDuration  = 20.0
	DefaultSamples   = 2000
	DefaultTolerance = 1e-9
	DefaultMaxStep   = 0.01
	DefaultMinStep   = 1e-12
	DefaultLogLevel  = "info"
)

type Config struct {
	Gravity                float64 `yaml:"gravity"`
	Length                 float64 `yaml:"length"`
	InitialAngle           float64 `yaml:"initial_angle"`
	InitialAngularVelocity float64 `yaml:"initial_angular_velocity"`
	SimulationDuration     float64 `yaml:"simulation_duration"`
	SampleCount            int     `yaml:"sample_count"`
	Integrator             string  `yaml:"integrator"`
	Tolerance              float64 `yaml:"tolerance"`
	MaxStep                float64 `yaml:"max_step"`
	MinStep                float64 `yaml:"min_step"`
	Loop                   bool    `yaml:"loop"`
	LogLevel               string  `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Gravity:                physics.DefaultGravity,
		Length:                 physics.DefaultLength,
		InitialAngle:           DefaultTheta,
		InitialAngularVelocity: DefaultOmega,
		SimulationDuration:     DefaultDuration,
		SampleCount:            DefaultSamples,
		Integrator:             integrators.Default,
		Tolerance:              DefaultTolerance,
		MaxStep:                DefaultMaxStep,
		MinStep:                DefaultMinStep,
		Loop:                   true,
		LogLevel:               DefaultLogLevel,
	}
}

// Load reads path on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Overlay(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay replaces only the fields present in the YAML file at path.
func (c *Config) Overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Write encodes the configuration as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate reports the first invalid field as a *dynamo.ConfigError.
func (c *Config) Validate() error {
	positive := []struct {
		field string
		value float64
	}{
		{"gravity", c.Gravity},
		{"length", c.Length},
		{"simulation_duration", c.SimulationDuration},
		{"tolerance", c.Tolerance},
		{"max_step", c.MaxStep},
		{"min_step", c.MinStep},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return &dynamo.ConfigError{Field: p.field, Value: p.value, Reason: "must be a positive finite number"}
		}
	}

	if c.SampleCount <= 0 {
		return &dynamo.ConfigError{Field: "sample_count", Value: c.SampleCount, Reason: "must be positive"}
	}
	if c.MinStep > c.MaxStep {
		return &dynamo.ConfigError{Field: "min_step", Value: c.MinStep, Reason: fmt.Sprintf("exceeds max_step %g", c.MaxStep)}
	}
	if !finite(c.InitialAngle) {
		return &dynamo.ConfigError{Field: "initial_angle", Value: c.InitialAngle, Reason: "must be finite"}
	}
	if !finite(c.InitialAngularVelocity) {
		return &dynamo.ConfigError{Field: "initial_angular_velocity", Value: c.InitialAngularVelocity, Reason: "must be finite"}
	}
	if !integrators.Known(c.Integrator) {
		return &dynamo.ConfigError{Field: "integrator", Value: c.Integrator, Reason: fmt.Sprintf("must be one of %v", integrators.Names())}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &dynamo.ConfigError{Field: "log_level", Value: c.LogLevel, Reason: "must be debug, info, warn or error"}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (c *Config) Pendulum() *physics.Pendulum {
	return &physics.Pendulum{Gravity: c.Gravity, Length: c.Length}
}

func (c *Config) InitialState() dynamo.State {
	return dynamo.State{c.InitialAngle, c.InitialAngularVelocity}
}

func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Tolerance:     c.Tolerance,
		MaxStep:       c.MaxStep,
		MinStep:       c.MinStep,
		ValidateState: true,
	}
}

func (c *Config) TimeGrid() ([]float64, error) {
	return dynamo.TimeGrid(c.SimulationDuration, c.SampleCount)
}

// NewIntegrator builds a fresh instance of the configured integrator, or of
// name when it is non-empty.
func (c *Config) NewIntegrator(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = c.Integrator
	}
	return integrators.New(name, integrators.Options{MinStep: c.MinStep, MaxStep: c.MaxStep})
}
