package orchestrator

import (
	"math"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/internal/simulation"
	"github.com/Nadirh/retirement-planning/internal/sweep"
	"github.com/Nadirh/retirement-planning/pkg/id"
)

// Request defaults and limits, in request units (percent)
const (
	DefaultYears           = 25
	DefaultWithdrawalRate  = 5.0
	DefaultStockAllocation = 70.0
	MinWithdrawalPercent   = 0.1
	MaxWithdrawalPercent   = 20.0
	MaxInflationPercent    = 10.0
)

// Request is the JSON body of a simulation request. Percentages are given as
// percent (5.0 means 5%). Omitted fields take their defaults; a null or
// omitted inflation means "use bootstrapped inflation".
type Request struct {
	Years                    *int     `json:"years,omitempty"`
	WithdrawalRate           *float64 `json:"withdrawalRate,omitempty"`
	Inflation                *float64 `json:"inflation,omitempty"`
	AllocationSweep          bool     `json:"allocationSweep"`
	StockAllocationGrid      []int    `json:"stockAllocationGrid,omitempty"`
	GridStep                 int      `json:"gridStep,omitempty"`
	StockAllocation          *float64 `json:"stockAllocation,omitempty"`
	BondAllocation           *float64 `json:"bondAllocation,omitempty"`
	SimulationsPerAllocation *int     `json:"simulationsPerAllocation,omitempty"`
	Seed                     *uint64  `json:"seed,omitempty"`
	InflationRule            string   `json:"inflationRule,omitempty"`
}

// Limits carry the configured defaults a request falls back to
type Limits struct {
	DefaultIterations int
	MaxIterations     int
	DefaultSeed       uint64
	InflationRule     simulation.InflationRule
}

// Plan is a validated request in simulation units (fractions)
type Plan struct {
	Workflow   WorkflowType
	Params     simulation.Parameters
	Grid       []int
	Iterations int
	Seed       uint64
}

// Plan validates r against limits. Every problem is reported in one
// VALIDATION error and no simulation work is started on failure.
func (r Request) Plan(limits Limits) (Plan, error) {
	v := &simerrors.ValidationErrors{Component: "request"}

	years := DefaultYears
	if r.Years != nil {
		years = *r.Years
	}
	if years < simulation.MinHorizonYears || years > simulation.MaxHorizonYears {
		v.Add("years must be between %d and %d, got: %d", simulation.MinHorizonYears, simulation.MaxHorizonYears, years)
	}

	withdrawal := DefaultWithdrawalRate
	if r.WithdrawalRate != nil {
		withdrawal = *r.WithdrawalRate
	}
	if !inRange(withdrawal, MinWithdrawalPercent, MaxWithdrawalPercent) {
		v.Add("withdrawalRate must be between %.1f and %.1f percent, got: %v", MinWithdrawalPercent, MaxWithdrawalPercent, withdrawal)
	}

	var fixed *float64
	if r.Inflation != nil {
		if !inRange(*r.Inflation, 0, MaxInflationPercent) {
			v.Add("inflation must be between 0 and %.1f percent, got: %v", MaxInflationPercent, *r.Inflation)
		}
		f := *r.Inflation / 100
		fixed = &f
	}

	rule := limits.InflationRule
	if r.InflationRule != "" {
		parsed, err := simulation.ParseInflationRule(r.InflationRule)
		if err != nil {
			v.Add("inflationRule must be compound-monthly or annual-field, got: %q", r.InflationRule)
		}
		rule = parsed
	}
	if rule == "" {
		rule = simulation.InflationRuleCompoundMonthly
	}

	iterations := limits.DefaultIterations
	if iterations <= 0 {
		iterations = 100
	}
	if r.SimulationsPerAllocation != nil {
		iterations = *r.SimulationsPerAllocation
	}
	maxIterations := limits.MaxIterations
	if maxIterations <= 0 {
		maxIterations = math.MaxInt32
	}
	if iterations < 1 || iterations > maxIterations {
		v.Add("simulationsPerAllocation must be between 1 and %d, got: %d", maxIterations, iterations)
	}

	plan := Plan{
		Params: simulation.Parameters{
			HorizonYears:   years,
			WithdrawalRate: withdrawal / 100,
			FixedInflation: fixed,
			InflationRule:  rule,
		},
		Iterations: iterations,
		Seed:       resolveSeed(r.Seed, limits.DefaultSeed),
	}

	if r.AllocationSweep {
		plan.Workflow = WorkflowTypeSweep
		plan.Grid = r.grid(v)
		plan.Params = plan.Params.WithStockPercent(0)
	} else {
		plan.Workflow = WorkflowTypeSingle
		stock := DefaultStockAllocation
		if r.StockAllocation != nil {
			stock = *r.StockAllocation
		}
		if !inRange(stock, 0, 100) {
			v.Add("stockAllocation must be between 0 and 100 percent, got: %v", stock)
		}
		if r.BondAllocation != nil && math.Abs(*r.BondAllocation-(100-stock)) > 1e-9 {
			v.Add("bondAllocation must equal 100 - stockAllocation (%v), got: %v", 100-stock, *r.BondAllocation)
		}
		plan.Params.StockAllocation = stock / 100
	}

	if err := v.Err("plan"); err != nil {
		return Plan{}, err
	}
	if err := plan.Params.Validate(); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

func (r Request) grid(v *simerrors.ValidationErrors) []int {
	switch {
	case len(r.StockAllocationGrid) > 0 && r.GridStep != 0:
		v.Add("use either stockAllocationGrid or gridStep, not both")
		return nil
	case len(r.StockAllocationGrid) > 0:
		if err := sweep.ValidateGrid(r.StockAllocationGrid); err != nil {
			v.Add("stockAllocationGrid must be strictly ascending percentages in [0,100]")
			return nil
		}
		grid := make([]int, len(r.StockAllocationGrid))
		copy(grid, r.StockAllocationGrid)
		return grid
	case r.GridStep != 0:
		grid, err := sweep.GridFromStep(r.GridStep)
		if err != nil {
			v.Add("gridStep must be between 1 and 100, got: %d", r.GridStep)
			return nil
		}
		return grid
	default:
		return sweep.DefaultGrid()
	}
}

func resolveSeed(requested *uint64, configured uint64) uint64 {
	if requested != nil && *requested != 0 {
		return *requested
	}
	if configured != 0 {
		return configured
	}
	return id.NewSeed()
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}
