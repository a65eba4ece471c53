package sim

import (
	"context"
	"fmt"
	"sync"
)

// Ensemble runs copies of one configuration with consecutive seeds, each on
// its own goroutine.
type Ensemble struct {
	cfg       Config
	numRuns   int
	seedStart int64
}

func NewEnsemble(cfg Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

// Run builds every member and steps it steps times. setup, when non-nil,
// runs on each member before stepping (to attach metrics). Members are
// returned in seed order.
func (e *Ensemble) Run(ctx context.Context, steps int, setup func(*Simulation)) ([]*Simulation, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("ensemble needs a positive step count, got %d", steps)
	}
	sims := make([]*Simulation, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			s, err := New(cfgCopy)
			if err != nil {
				errs[idx] = err
				return
			}
			if setup != nil {
				setup(s)
			}
			sims[idx] = s
			errs[idx] = s.Run(ctx, steps, nil)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return sims, nil
}
