package simulation

import "github.com/Nadirh/retirement-planning/pkg/types"

// PortfolioPath is the running state of one simulated retirement
type PortfolioPath struct {
	CurrentValue            float64
	CurrentAnnualWithdrawal float64
	MonthIndex              int
	Failed                  bool
	FailureMonth            int

	// product of (1 + monthly inflation) drawn since the last adjustment
	yearInflation float64
}

// Outcome is the result of one path
type Outcome struct {
	Success        bool
	FinalValue     float64
	MonthsSurvived int
}

// YearsSurvived returns MonthsSurvived in years
func (o Outcome) YearsSurvived() float64 {
	return float64(o.MonthsSurvived) / MonthsPerYear
}

// PathSimulator runs single paths for one parameter set. It holds no mutable
// state and may be shared between goroutines.
type PathSimulator struct {
	params       Parameters
	initialValue float64
}

// NewPathSimulator creates a simulator; a non-positive initialValue falls
// back to DefaultInitialValue
func NewPathSimulator(params Parameters, initialValue float64) *PathSimulator {
	if initialValue <= 0 {
		initialValue = DefaultInitialValue
	}
	if params.InflationRule == "" {
		params.InflationRule = InflationRuleCompoundMonthly
	}
	return &PathSimulator{params: params, initialValue: initialValue}
}

// InitialValue returns the starting portfolio value
func (ps *PathSimulator) InitialValue() float64 {
	return ps.initialValue
}

// NewPath returns a path at month zero
func (ps *PathSimulator) NewPath() PortfolioPath {
	return PortfolioPath{
		CurrentValue:            ps.initialValue,
		CurrentAnnualWithdrawal: ps.initialValue * ps.params.WithdrawalRate,
		yearInflation:           1,
	}
}

// Run simulates one path, drawing one month from sampler per simulated month
func (ps *PathSimulator) Run(sampler Sampler) Outcome {
	path := ps.NewPath()
	months := ps.params.Months()

	for m := 0; m < months; m++ {
		path.MonthIndex = m
		ps.Step(&path, sampler.Next())
		if path.Failed {
			break
		}
	}

	return path.outcome(months)
}

// Step advances path by one month using obs: growth, the yearly withdrawal
// adjustment, then the monthly withdrawal.
func (ps *PathSimulator) Step(path *PortfolioPath, obs types.MonthlyObservation) {
	stock := ps.params.StockAllocation
	bond := ps.params.BondAllocation()
	path.CurrentValue *= 1 + stock*obs.StockReturn + bond*obs.BondReturn

	if path.MonthIndex > 0 && path.MonthIndex%MonthsPerYear == 0 {
		path.CurrentAnnualWithdrawal *= ps.adjustment(path, obs)
		path.yearInflation = 1
	}
	path.yearInflation *= 1 + obs.MonthlyInflation

	path.CurrentValue -= path.CurrentAnnualWithdrawal / MonthsPerYear
	if path.CurrentValue <= 0 {
		path.Failed = true
		path.FailureMonth = path.MonthIndex
	}
}

func (ps *PathSimulator) adjustment(path *PortfolioPath, obs types.MonthlyObservation) float64 {
	if ps.params.FixedInflation != nil {
		return 1 + *ps.params.FixedInflation
	}
	if ps.params.InflationRule == InflationRuleAnnualField {
		return 1 + obs.AnnualInflation
	}
	return path.yearInflation
}

func (p *PortfolioPath) outcome(months int) Outcome {
	if p.Failed {
		return Outcome{Success: false, FinalValue: 0, MonthsSurvived: p.FailureMonth}
	}
	final := p.CurrentValue
	if final < 0 {
		final = 0
	}
	return Outcome{Success: true, FinalValue: final, MonthsSurvived: months}
}
