package types

import "time"

// SweepStatus tells whether a sweep ran to completion
type SweepStatus string

const (
	SweepStatusComplete SweepStatus = "complete"
	SweepStatusTimeout  SweepStatus = "timeout"
)

// InflationSource identifies where withdrawal increases came from
type InflationSource string

const (
	InflationSourceFixed     InflationSource = "fixed"
	InflationSourceBootstrap InflationSource = "bootstrap"
)

// AllocationResult summarizes every simulated path for one stock/bond split.
// Nil pointers mean "no paths in that bucket".
type AllocationResult struct {
	StockPercent                      int      `json:"stock_percent" yaml:"stock_percent"`
	BondPercent                       int      `json:"bond_percent" yaml:"bond_percent"`
	SuccessRate                       float64  `json:"success_rate" yaml:"success_rate"`
	SuccessCount                      int      `json:"success_count" yaml:"success_count"`
	FailureCount                      int      `json:"failure_count" yaml:"failure_count"`
	AvgFinalPortfolioAmongSuccesses   *float64 `json:"avg_final_portfolio,omitempty" yaml:"avg_final_portfolio,omitempty"`
	MedianYearsToFailureAmongFailures *float64 `json:"median_years_to_failure,omitempty" yaml:"median_years_to_failure,omitempty"`
	MeanYearsToFailure                *float64 `json:"mean_years_to_failure,omitempty" yaml:"mean_years_to_failure,omitempty"`
	FinalPortfolioP10                 *float64 `json:"final_portfolio_p10,omitempty" yaml:"final_portfolio_p10,omitempty"`
	FinalPortfolioP50                 *float64 `json:"final_portfolio_p50,omitempty" yaml:"final_portfolio_p50,omitempty"`
	FinalPortfolioP90                 *float64 `json:"final_portfolio_p90,omitempty" yaml:"final_portfolio_p90,omitempty"`
}

// Simulations returns the number of paths behind the result
func (r AllocationResult) Simulations() int {
	return r.SuccessCount + r.FailureCount
}

// SweepParameters echoes the inputs a sweep ran with
type SweepParameters struct {
	HorizonYears   int      `json:"horizon_years" yaml:"horizon_years"`
	WithdrawalRate float64  `json:"withdrawal_rate" yaml:"withdrawal_rate"`
	FixedInflation *float64 `json:"fixed_inflation,omitempty" yaml:"fixed_inflation,omitempty"`
	InflationRule  string   `json:"inflation_rule" yaml:"inflation_rule"`
	Grid           []int    `json:"grid" yaml:"grid"`
}

// SweepReport is the outcome of an allocation sweep. When Status is
// SweepStatusTimeout, Allocations holds only the grid points that finished
// and Best is nil.
type SweepReport struct {
	ID                        string             `json:"id" yaml:"id"`
	Status                    SweepStatus        `json:"status" yaml:"status"`
	Allocations               []AllocationResult `json:"allocations" yaml:"allocations"`
	Best                      *AllocationResult  `json:"best,omitempty" yaml:"best,omitempty"`
	TotalCombinations         int                `json:"total_combinations" yaml:"total_combinations"`
	SimulationsPerCombination int                `json:"simulations_per_combination" yaml:"simulations_per_combination"`
	TotalSimulations          int                `json:"total_simulations" yaml:"total_simulations"`
	Seed                      uint64             `json:"seed" yaml:"seed"`
	InitialPortfolio          float64            `json:"initial_portfolio" yaml:"initial_portfolio"`
	InflationSource           InflationSource    `json:"inflation_source" yaml:"inflation_source"`
	Parameters                SweepParameters    `json:"parameters" yaml:"parameters"`
	Duration                  time.Duration      `json:"duration" yaml:"duration"`
	GeneratedAt               time.Time          `json:"generated_at" yaml:"generated_at"`
}

// Complete reports whether every grid point was simulated
func (r *SweepReport) Complete() bool {
	return r.Status == SweepStatusComplete && len(r.Allocations) == r.TotalCombinations
}

// SimulationResult is the outcome of a single-allocation run
type SimulationResult struct {
	ID               string           `json:"id" yaml:"id"`
	Allocation       AllocationResult `json:"allocation" yaml:"allocation"`
	Seed             uint64           `json:"seed" yaml:"seed"`
	InitialPortfolio float64          `json:"initial_portfolio" yaml:"initial_portfolio"`
	InflationSource  InflationSource  `json:"inflation_source" yaml:"inflation_source"`
	Duration         time.Duration    `json:"duration" yaml:"duration"`
}
