package automation

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/blobsim/internal/engine"
)

// Ensemble runs the same session under consecutive seeds, one goroutine
// per run. Engines share nothing, so the runs are independent.
type Ensemble struct {
	Runs      int
	SeedStart int64
	Frames    int
}

// Run builds each engine with newEngine and returns the results in seed
// order. The first error wins.
func (en Ensemble) Run(ctx context.Context, newEngine func(seed int64) (*engine.Engine, error)) ([]*engine.Result, error) {
	if en.Runs < 1 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", en.Runs)
	}
	results := make([]*engine.Result, en.Runs)
	errs := make([]error, en.Runs)

	var wg sync.WaitGroup
	for i := 0; i < en.Runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			e, err := newEngine(en.SeedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = e.Run(ctx, en.Frames)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", en.SeedStart+int64(i), err)
		}
	}

	return results, nil
}

// MetricSeries collects one metric across results, in order.
func MetricSeries(results []*engine.Result, name string) []float64 {
	out := make([]float64, 0, len(results))
	for _, r := range results {
		if v, ok := r.Metrics[name]; ok {
			out = append(out, v)
		}
	}
	return out
}
