package player

import (
	"context"
	"sync"

	"github.com/san-kum/matrixvis/internal/vis"
)

// BuildFunc constructs an independent player for one seed.
type BuildFunc func(seed int64) (*Player, error)

type Result struct {
	Seed    int64
	Frames  int
	Metrics map[string]float64
}

// Ensemble renders several independently seeded players in parallel.
type Ensemble struct {
	build     BuildFunc
	numRuns   int
	seedStart int64
}

func NewEnsemble(build BuildFunc, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// Run steps every player for frames fixed-delta frames.
func (e *Ensemble) Run(ctx context.Context, frames int, delta float64) ([]Result, error) {
	results := make([]Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := e.seedStart + int64(idx)
			p, err := e.build(seed)
			if err != nil {
				errs[idx] = err
				return
			}

			for n := 0; n < frames; n++ {
				select {
				case <-ctx.Done():
					errs[idx] = ctx.Err()
					return
				default:
				}
				p.Step(delta, vis.Vec2{})
			}
			results[idx] = Result{Seed: seed, Frames: p.Frames(), Metrics: p.Metrics()}
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
