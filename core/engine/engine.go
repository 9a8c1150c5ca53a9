// Package engine - Calculation orchestration
// Resolves the three parameter layers and computes every configured batch
// range. The engine is pure: obtaining defaults and exchange rates is the
// caller's concern, performed before invoking Calculate.
package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"garment-cost/core/calc"
	"garment-cost/core/params"
	"garment-cost/core/types"
)

// Calculation is the outcome of one calculate request
type Calculation struct {
	// Parameters is the fully merged parameter bundle used for the run
	Parameters *types.CalculationParameters `json:"parameters"`

	// Results holds the computed breakdown for every configured range
	Results types.ResultSet `json:"results"`
}

// Warnings collects the per-range warnings across all results
func (c *Calculation) Warnings() []string {
	var warnings []string
	for _, id := range types.RangeIDs() {
		if r, ok := c.Results[id]; ok {
			warnings = append(warnings, r.Warnings...)
		}
	}
	return warnings
}

// Calculate merges defaults with the caller and system override layers,
// validates the result, and computes all configured ranges. Ranges are
// computed concurrently; the first failing range aborts the whole
// calculation and no partial result is returned.
func Calculate(ctx context.Context, defaults types.Defaults, user, system *types.Override) (*Calculation, error) {
	merged, err := params.Resolve(defaults, user, system)
	if err != nil {
		return nil, err
	}

	ids := types.RangeIDs()
	results := make([]*types.RangeResult, len(ids))

	g, _ := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			res, err := calc.ComputeRange(merged, id)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := make(types.ResultSet, len(ids))
	for i, id := range ids {
		set[id] = results[i]
	}

	return &Calculation{Parameters: merged, Results: set}, nil
}
