package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Member is one independently configured run inside an Ensemble.
type Member struct {
	Name      string
	Simulator *Simulator
}

// Ensemble solves the same initial value problem with several simulators
// concurrently. Members must not share integrator instances.
type Ensemble struct {
	members []Member
}

func NewEnsemble(members ...Member) *Ensemble {
	return &Ensemble{members: members}
}

func (e *Ensemble) Len() int { return len(e.members) }

// Run returns results in member order. The first failure cancels the others.
func (e *Ensemble) Run(ctx context.Context, x0 dynamo.State, times []float64) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(e.members))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range e.members {
		i, m := i, m
		g.Go(func() error {
			res, err := m.Simulator.Solve(gctx, x0.Clone(), times)
			if err != nil {
				return fmt.Errorf("%s: %w", m.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
