package config

import "sort"

type preset struct {
	theta, omega, duration float64
}

var presets = map[string]preset{
	"default":  {theta: DefaultTheta, omega: DefaultOmega, duration: DefaultDuration},
	"small":    {theta: 0.2, omega: 0.0, duration: 20.0},
	"large":    {theta: 2.5, omega: 0.0, duration: 20.0},
	"spinning": {theta: 0.1, omega: 8.0, duration: 30.0},
	"rest":     {theta: 0.0, omega: 0.0, duration: 10.0},
}

// GetPreset returns a fresh configuration built from the defaults and the
// named preset's initial conditions, or nil if the name is unknown.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.InitialAngle = p.theta
	cfg.InitialAngularVelocity = p.omega
	cfg.SimulationDuration = p.duration
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
