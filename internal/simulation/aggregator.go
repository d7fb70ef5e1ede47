package simulation

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

const cancelCheckInterval = 32

// AggregatorOptions configure an Aggregator
type AggregatorOptions struct {
	Iterations   int
	InitialValue float64
	Workers      int
}

// Aggregator runs many independent paths for one allocation and summarizes
// them. Parameters are trusted; validate them before calling Run.
type Aggregator struct {
	source SamplerSource
	opts   AggregatorOptions
}

// NewAggregator creates an aggregator over source
func NewAggregator(source SamplerSource, opts AggregatorOptions) *Aggregator {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.InitialValue <= 0 {
		opts.InitialValue = DefaultInitialValue
	}
	return &Aggregator{source: source, opts: opts}
}

// Iterations returns the number of paths per run
func (a *Aggregator) Iterations() int {
	return a.opts.Iterations
}

// Run simulates Iterations paths for params and summarizes them
func (a *Aggregator) Run(ctx context.Context, params Parameters) (types.AllocationResult, error) {
	outcomes, err := a.Outcomes(ctx, params)
	if err != nil {
		return types.AllocationResult{}, err
	}
	return Summarize(params, outcomes), nil
}

// Outcomes simulates Iterations paths for params. Iteration i always uses the
// stream keyed by (allocation, i), whatever the worker count.
func (a *Aggregator) Outcomes(ctx context.Context, params Parameters) ([]Outcome, error) {
	n := a.opts.Iterations
	if n <= 0 {
		return nil, simerrors.NewValidationError("simulation", "run", "iterations must be positive")
	}

	sim := NewPathSimulator(params, a.opts.InitialValue)
	outcomes := make([]Outcome, n)

	workers := a.opts.Workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				outcomes[i] = sim.Run(a.source.Sampler(KeyFor(params.StockAllocation, i)))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, contextError(err, "run")
	}
	return outcomes, nil
}

// Summarize folds path outcomes into an AllocationResult
func Summarize(params Parameters, outcomes []Outcome) types.AllocationResult {
	stock := params.StockPercent()
	result := types.AllocationResult{
		StockPercent: stock,
		BondPercent:  100 - stock,
	}

	var survivorFinals, failureYears []float64
	for _, o := range outcomes {
		if o.Success {
			result.SuccessCount++
			survivorFinals = append(survivorFinals, o.FinalValue)
		} else {
			result.FailureCount++
			failureYears = append(failureYears, o.YearsSurvived())
		}
	}

	if len(outcomes) > 0 {
		result.SuccessRate = float64(result.SuccessCount) / float64(len(outcomes))
	}
	if len(survivorFinals) > 0 {
		result.AvgFinalPortfolioAmongSuccesses = ptr(Mean(survivorFinals))
		result.FinalPortfolioP10 = ptr(Percentile(survivorFinals, 10))
		result.FinalPortfolioP50 = ptr(Percentile(survivorFinals, 50))
		result.FinalPortfolioP90 = ptr(Percentile(survivorFinals, 90))
	}
	if len(failureYears) > 0 {
		result.MedianYearsToFailureAmongFailures = ptr(Median(failureYears))
		result.MeanYearsToFailure = ptr(Mean(failureYears))
	}

	return result
}

func contextError(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return simerrors.NewTimeoutError("simulation", operation, err)
	}
	if errors.Is(err, context.Canceled) {
		return simerrors.NewCancelledError("simulation", operation, err)
	}
	return simerrors.NewInternalError("simulation", operation, err)
}
