package sweep

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"time"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/internal/logger"
	"github.com/Nadirh/retirement-planning/internal/simulation"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

// Options configure an Optimizer
type Options struct {
	// Iterations is K, the number of paths per grid point
	Iterations   int
	Workers      int
	InitialValue float64
	// TimeBudget bounds a whole sweep; zero means no budget beyond ctx
	TimeBudget time.Duration
	Logger     *logger.Logger
}

// Optimizer runs the aggregator once per allocation on a grid and picks the
// allocation with the best success rate
type Optimizer struct {
	source simulation.SamplerSource
	opts   Options
	log    *logger.Logger
}

// NewOptimizer creates an optimizer drawing paths from source
func NewOptimizer(source simulation.SamplerSource, opts Options) *Optimizer {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.InitialValue <= 0 {
		opts.InitialValue = simulation.DefaultInitialValue
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Optimizer{source: source, opts: opts, log: log}
}

// Run sweeps base over grid. The stock allocation of base is ignored.
//
// Invalid input fails before any simulation. When the time budget or ctx
// deadline expires, Run returns a TIMEOUT error together with a report whose
// Status is timeout, holding only the allocations that finished and no Best.
func (o *Optimizer) Run(ctx context.Context, base simulation.Parameters, grid []int) (*types.SweepReport, error) {
	if err := o.validate(base, grid); err != nil {
		return nil, err
	}
	if base.InflationRule == "" {
		base.InflationRule = simulation.InflationRuleCompoundMonthly
	}

	start := time.Now()
	if o.opts.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.TimeBudget)
		defer cancel()
	}

	poolWorkers := min(o.opts.Workers, len(grid))
	aggregator := simulation.NewAggregator(o.source, simulation.AggregatorOptions{
		Iterations:   o.opts.Iterations,
		InitialValue: o.opts.InitialValue,
		Workers:      max(1, o.opts.Workers/poolWorkers),
	})

	o.log.Info("Starting allocation sweep: %d allocations x %d simulations, %d years, %.2f%% withdrawal",
		len(grid), o.opts.Iterations, base.HorizonYears, base.WithdrawalRate*100)

	pool := NewWorkerPool(ctx, poolWorkers, len(grid), aggregator)
	pool.Start()
	for i, pct := range grid {
		job := AllocationJob{ID: jobID(pct, i), Index: i, Params: base.WithStockPercent(pct)}
		if err := pool.SubmitJob(job); err != nil {
			break
		}
	}
	go pool.Stop()

	results := make([]*types.AllocationResult, len(grid))
	progress := NewProgressTracker(len(grid))
	var failure error
	timedOut := false

	for res := range pool.GetResults() {
		if res.Error != nil {
			if simerrors.IsTimeout(res.Error) {
				timedOut = true
			} else if failure == nil {
				failure = res.Error
			}
			continue
		}
		r := res.Result
		results[res.Index] = &r
		progress.Increment()
		done, total, pctDone, _ := progress.GetProgress()
		o.log.Debug("Allocation %d/%d stock finished in %v (%d/%d, %.0f%%, eta %v)",
			r.StockPercent, r.BondPercent, res.Duration, done, total, pctDone, progress.EstimateTimeRemaining())
	}

	completed, _, _, _ := progress.GetProgress()
	if err := ctx.Err(); errors.Is(err, context.Canceled) && completed < len(grid) {
		o.log.Warn("Allocation sweep cancelled: %d of %d allocations completed", completed, len(grid))
		return nil, simerrors.NewCancelledError("sweep", "run", err).
			WithContext("completed", completed).
			WithContext("total", len(grid))
	}

	if failure != nil {
		o.log.LogError("Allocation sweep failed", failure)
		return nil, failure
	}

	report := o.newReport(base, grid, start)
	for _, r := range results {
		if r != nil {
			report.Allocations = append(report.Allocations, *r)
		}
	}
	sort.Slice(report.Allocations, func(i, j int) bool {
		return report.Allocations[i].StockPercent < report.Allocations[j].StockPercent
	})

	if timedOut || len(report.Allocations) < len(grid) {
		report.Status = types.SweepStatusTimeout
		err := simerrors.NewTimeoutError("sweep", "run", ctx.Err()).
			WithContext("completed", len(report.Allocations)).
			WithContext("total", len(grid)).
			WithContext("budget", o.opts.TimeBudget)
		o.log.Warn("Allocation sweep timed out after %v: %d of %d allocations completed",
			report.Duration, len(report.Allocations), len(grid))
		return report, err
	}

	report.Status = types.SweepStatusComplete
	report.Best = SelectBest(report.Allocations)
	o.log.Info("Allocation sweep finished in %v: best %d/%d at %.1f%% success",
		report.Duration, report.Best.StockPercent, report.Best.BondPercent, report.Best.SuccessRate*100)
	return report, nil
}

func (o *Optimizer) validate(base simulation.Parameters, grid []int) error {
	if o.opts.Iterations <= 0 {
		return simerrors.NewValidationError("sweep", "run", "simulations per allocation must be positive").
			WithContext("iterations", o.opts.Iterations)
	}
	if err := ValidateGrid(grid); err != nil {
		return err
	}
	return base.WithStockPercent(grid[0]).Validate()
}

func (o *Optimizer) newReport(base simulation.Parameters, grid []int, start time.Time) *types.SweepReport {
	source := types.InflationSourceBootstrap
	if base.FixedInflation != nil {
		source = types.InflationSourceFixed
	}
	var seed uint64
	if s, ok := o.source.(interface{ Seed() uint64 }); ok {
		seed = s.Seed()
	}

	gridCopy := make([]int, len(grid))
	copy(gridCopy, grid)

	return &types.SweepReport{
		Allocations:               make([]types.AllocationResult, 0, len(grid)),
		TotalCombinations:         len(grid),
		SimulationsPerCombination: o.opts.Iterations,
		TotalSimulations:          len(grid) * o.opts.Iterations,
		Seed:                      seed,
		InitialPortfolio:          o.opts.InitialValue,
		InflationSource:           source,
		Parameters: types.SweepParameters{
			HorizonYears:   base.HorizonYears,
			WithdrawalRate: base.WithdrawalRate,
			FixedInflation: base.FixedInflation,
			InflationRule:  string(base.InflationRule),
			Grid:           gridCopy,
		},
		Duration:    time.Since(start),
		GeneratedAt: time.Now().UTC(),
	}
}

// SelectBest returns the allocation with the highest success rate. Ties go
// to the higher average final portfolio (nil ranks below any value), then to
// the lower stock allocation. It returns nil for an empty list.
func SelectBest(results []types.AllocationResult) *types.AllocationResult {
	if len(results) == 0 {
		return nil
	}
	best := results[0]
	for _, r := range results[1:] {
		if better(r, best) {
			best = r
		}
	}
	return &best
}

func better(a, b types.AllocationResult) bool {
	if a.SuccessRate != b.SuccessRate {
		return a.SuccessRate > b.SuccessRate
	}
	aAvg, bAvg := a.AvgFinalPortfolioAmongSuccesses, b.AvgFinalPortfolioAmongSuccesses
	switch {
	case aAvg != nil && bAvg == nil:
		return true
	case aAvg == nil && bAvg != nil:
		return false
	case aAvg != nil && bAvg != nil && *aAvg != *bAvg:
		return *aAvg > *bAvg
	}
	return a.StockPercent < b.StockPercent
}
