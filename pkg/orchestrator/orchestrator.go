package orchestrator

import (
	"context"
	"time"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/internal/logger"
	"github.com/Nadirh/retirement-planning/internal/monitoring"
	"github.com/Nadirh/retirement-planning/internal/simulation"
	"github.com/Nadirh/retirement-planning/internal/sweep"
	"github.com/Nadirh/retirement-planning/pkg/config"
	"github.com/Nadirh/retirement-planning/pkg/id"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

// Options configure a DefaultOrchestrator
type Options struct {
	Iterations       int
	MaxIterations    int
	Workers          int
	InitialPortfolio float64
	TimeBudget       time.Duration
	Seed             uint64
	InflationRule    simulation.InflationRule
	Logger           *logger.Logger
}

// OptionsFromConfig maps the simulation section of cfg
func OptionsFromConfig(cfg *config.Config, log *logger.Logger) Options {
	return Options{
		Iterations:       cfg.Simulation.Iterations,
		MaxIterations:    cfg.Simulation.MaxIterations,
		Workers:          cfg.Simulation.Workers,
		InitialPortfolio: cfg.Simulation.InitialPortfolio,
		TimeBudget:       cfg.Simulation.TimeBudget,
		Seed:             cfg.Simulation.Seed,
		InflationRule:    cfg.InflationRule(),
		Logger:           log,
	}
}

// DefaultOrchestrator implements the Orchestrator interface
type DefaultOrchestrator struct {
	series SeriesProvider
	opts   Options
	log    *logger.Logger
}

// NewOrchestrator creates an orchestrator sampling from series
func NewOrchestrator(series SeriesProvider, opts Options) *DefaultOrchestrator {
	if opts.InitialPortfolio <= 0 {
		opts.InitialPortfolio = simulation.DefaultInitialValue
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &DefaultOrchestrator{series: series, opts: opts, log: log}
}

// Plan validates req against the configured limits
func (o *DefaultOrchestrator) Plan(req Request) (Plan, error) {
	return req.Plan(Limits{
		DefaultIterations: o.opts.Iterations,
		MaxIterations:     o.opts.MaxIterations,
		DefaultSeed:       o.opts.Seed,
		InflationRule:     o.opts.InflationRule,
	})
}

// RunSweep executes an allocation sweep. On a timeout the partial report is
// returned together with the TIMEOUT error.
func (o *DefaultOrchestrator) RunSweep(ctx context.Context, plan Plan) (*types.SweepReport, error) {
	start := time.Now()

	series, err := o.series.Series()
	if err != nil {
		o.recordFailure("sweep", err, start)
		return nil, err
	}

	optimizer := sweep.NewOptimizer(simulation.NewBootstrapSource(series, plan.Seed), sweep.Options{
		Iterations:   plan.Iterations,
		Workers:      o.opts.Workers,
		InitialValue: o.opts.InitialPortfolio,
		TimeBudget:   o.opts.TimeBudget,
		Logger:       o.log,
	})

	report, err := optimizer.Run(ctx, plan.Params, plan.Grid)
	if report != nil {
		report.ID = id.New()
		simulated := len(report.Allocations) * plan.Iterations
		monitoring.RecordRun("sweep", string(report.Status), simulated, time.Since(start))
		if report.Best != nil {
			monitoring.UpdateBestSuccessRate(report.Best.SuccessRate)
		}
	}
	if err != nil {
		if report == nil {
			o.recordFailure("sweep", err, start)
		} else {
			monitoring.RecordError(string(simerrors.CategoryOf(err)))
		}
		return report, err
	}

	o.log.Info("Sweep %s completed: %d allocations, seed %d", report.ID, len(report.Allocations), report.Seed)
	return report, nil
}

// RunSingle simulates the plan's single allocation under the time budget
func (o *DefaultOrchestrator) RunSingle(ctx context.Context, plan Plan) (*types.SimulationResult, error) {
	start := time.Now()

	series, err := o.series.Series()
	if err != nil {
		o.recordFailure("single", err, start)
		return nil, err
	}

	if o.opts.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.TimeBudget)
		defer cancel()
	}

	aggregator := simulation.NewAggregator(simulation.NewBootstrapSource(series, plan.Seed), simulation.AggregatorOptions{
		Iterations:   plan.Iterations,
		InitialValue: o.opts.InitialPortfolio,
		Workers:      o.opts.Workers,
	})

	allocation, err := aggregator.Run(ctx, plan.Params)
	if err != nil {
		o.recordFailure("single", err, start)
		return nil, err
	}

	source := types.InflationSourceBootstrap
	if plan.Params.FixedInflation != nil {
		source = types.InflationSourceFixed
	}

	result := &types.SimulationResult{
		ID:               id.New(),
		Allocation:       allocation,
		Seed:             plan.Seed,
		InitialPortfolio: o.opts.InitialPortfolio,
		InflationSource:  source,
		Duration:         time.Since(start),
	}
	monitoring.RecordRun("single", string(types.SweepStatusComplete), plan.Iterations, result.Duration)

	o.log.Info("Simulation %s completed: %d/%d stock, %.1f%% success over %d paths",
		result.ID, allocation.StockPercent, allocation.BondPercent, allocation.SuccessRate*100, plan.Iterations)
	return result, nil
}

// Execute plans req and runs the matching workflow. For a timed-out sweep it
// returns the partial *SweepResponse together with the error.
func (o *DefaultOrchestrator) Execute(ctx context.Context, req Request) (interface{}, error) {
	plan, err := o.Plan(req)
	if err != nil {
		monitoring.RecordError(string(simerrors.CategoryOf(err)))
		return nil, err
	}
	return NewWorkflow(o, plan).Execute(ctx)
}

func (o *DefaultOrchestrator) recordFailure(mode string, err error, start time.Time) {
	category := simerrors.CategoryOf(err)
	status := "error"
	if category == simerrors.ErrorCategoryTimeout {
		status = string(types.SweepStatusTimeout)
	}
	monitoring.RecordRun(mode, status, 0, time.Since(start))
	monitoring.RecordError(string(category))
	o.log.LogError("Run failed", err)
}
