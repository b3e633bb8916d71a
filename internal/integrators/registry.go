package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Default is used when no integrator is named.
const Default = "rk45"

// Options carries the step bounds from the run configuration. Only rk45
// reads them; fixed-step methods get their step from the caller.
type Options struct {
	MinStep float64
	MaxStep float64
}

var registry = map[string]func(Options) dynamo.Integrator{
	"euler":    func(Options) dynamo.Integrator { return NewEuler() },
	"rk4":      func(Options) dynamo.Integrator { return NewRK4() },
	"verlet":   func(Options) dynamo.Integrator { return NewVerlet() },
	"leapfrog": func(Options) dynamo.Integrator { return NewLeapfrog() },
	"rk45": func(o Options) dynamo.Integrator {
		r := NewRK45()
		if o.MinStep > 0 && o.MaxStep > 0 {
			r.WithStepLimits(o.MinStep, o.MaxStep)
		}
		return r
	},
}

// New returns a fresh integrator. Instances carry scratch buffers and must
// not be shared between goroutines.
func New(name string, opts Options) (dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(opts), nil
}

func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names lists registered integrators in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
