package experiment

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/metrics"
)

// Probes are the metrics attached to every run. Crossings is kept separately
// because the report needs its first-crossing time as well as its count.
type Probes struct {
	Metrics   []dynamo.Metric
	Crossings *metrics.ZeroCrossings
}

func DefaultProbes(sys dynamo.System) Probes {
	crossings := metrics.NewZeroCrossings()
	return Probes{
		Metrics: []dynamo.Metric{
			metrics.NewEnergy(sys),
			metrics.NewEnergyDrift(sys),
			metrics.NewAmplitude(),
			metrics.NewStability(math.Pi),
			crossings,
		},
		Crossings: crossings,
	}
}
