package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/kppsim/internal/config"
)

// Factory builds the Simulator for one run of p.
type Factory func(p config.Params) *Simulator

// Ensemble runs independent parameter sets in parallel. Runs share no
// state; each goroutine gets its own Simulator from the factory.
type Ensemble struct {
	newSim  Factory
	workers int
}

// NewEnsemble uses factory to build a Simulator per run; nil means a bare
// Simulator. workers <= 0 means one per CPU.
func NewEnsemble(factory Factory, workers int) *Ensemble {
	if factory == nil {
		factory = func(config.Params) *Simulator { return New() }
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Ensemble{newSim: factory, workers: workers}
}

// Run returns results in the order of params. The first failing run (by
// index) is reported. A failure or ctx cancellation stops runs that have
// not started.
func (e *Ensemble) Run(ctx context.Context, params []config.Params) ([]*CycleResult, error) {
	results := make([]*CycleResult, len(params))
	errs := make([]error, len(params))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range params {
		i := i
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			results[i], errs[i] = e.newSim(params[i]).Run(params[i])
			return errs[i]
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
