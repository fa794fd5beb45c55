package batch

import (
	"context"
	"errors"
	"runtime"

	"Mudcheck/internal/calc/mudcheck"
	"Mudcheck/internal/calc/treatment"

	"golang.org/x/sync/errgroup"
)

var ErrNoItems = errors.New("no items")

type Input struct {
	Items   []mudcheck.Sample `json:"items"`
	Profile string            `json:"profile,omitempty"`
}

type Result struct {
	Count   int               `json:"count"`
	Results []mudcheck.Report `json:"results"`
}

// Evaluate runs every sample through mudcheck.Evaluate on up to workers
// goroutines. Results keep the input order. workers <= 0 uses GOMAXPROCS.
func Evaluate(ctx context.Context, cal treatment.Calibration, samples []mudcheck.Sample, workers int) (Result, error) {
	if len(samples) == 0 {
		return Result{}, ErrNoItems
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]mudcheck.Report, len(samples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range samples {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = mudcheck.Evaluate(s, cal)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	// gctx is always cancelled once Wait returns; only the caller's ctx counts.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return Result{Count: len(out), Results: out}, nil
}
