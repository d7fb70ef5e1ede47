package simulation

import (
	"math"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
)

// Parameter bounds
const (
	MinHorizonYears     = 1
	MaxHorizonYears     = 60
	MinWithdrawalRate   = 0.001
	MaxWithdrawalRate   = 0.20
	MaxFixedInflation   = 0.10
	MonthsPerYear       = 12
	DefaultInitialValue = 1_000_000
)

// InflationRule selects how bootstrapped inflation raises the withdrawal once
// a year when no fixed rate is given.
type InflationRule string

const (
	// InflationRuleCompoundMonthly multiplies the withdrawal by the product of
	// (1 + monthly inflation) over the 12 draws of the year just completed.
	InflationRuleCompoundMonthly InflationRule = "compound-monthly"
	// InflationRuleAnnualField multiplies the withdrawal by (1 + annual
	// inflation) of the month drawn at the year boundary.
	InflationRuleAnnualField InflationRule = "annual-field"
)

// ParseInflationRule accepts the rule names; empty means the default rule
func ParseInflationRule(s string) (InflationRule, error) {
	switch InflationRule(s) {
	case "", InflationRuleCompoundMonthly:
		return InflationRuleCompoundMonthly, nil
	case InflationRuleAnnualField:
		return InflationRuleAnnualField, nil
	default:
		return "", simerrors.NewValidationError("simulation", "parse_inflation_rule",
			"inflation rule must be one of [compound-monthly, annual-field], got: "+s)
	}
}

// Parameters describe one retirement scenario. BondAllocation is always
// 1 - StockAllocation.
type Parameters struct {
	HorizonYears    int
	WithdrawalRate  float64
	FixedInflation  *float64
	StockAllocation float64
	InflationRule   InflationRule
}

// BondAllocation returns the bond share of the portfolio
func (p Parameters) BondAllocation() float64 {
	return 1 - p.StockAllocation
}

// Months returns the horizon in months
func (p Parameters) Months() int {
	return p.HorizonYears * MonthsPerYear
}

// UsesBootstrapInflation reports whether withdrawals follow sampled inflation
func (p Parameters) UsesBootstrapInflation() bool {
	return p.FixedInflation == nil
}

// StockPercent returns the stock allocation as a whole percentage
func (p Parameters) StockPercent() int {
	return int(math.Round(p.StockAllocation * 100))
}

// WithStockPercent returns a copy allocated pct% to stocks
func (p Parameters) WithStockPercent(pct int) Parameters {
	p.StockAllocation = float64(pct) / 100
	return p
}

// Validate checks every bound. It reports all problems at once.
func (p Parameters) Validate() error {
	v := &simerrors.ValidationErrors{Component: "simulation"}

	if p.HorizonYears < MinHorizonYears || p.HorizonYears > MaxHorizonYears {
		v.Add("years must be between %d and %d, got: %d", MinHorizonYears, MaxHorizonYears, p.HorizonYears)
	}
	if math.IsNaN(p.WithdrawalRate) || p.WithdrawalRate < MinWithdrawalRate || p.WithdrawalRate > MaxWithdrawalRate {
		v.Add("withdrawal rate must be between %.3f and %.2f, got: %.4f", MinWithdrawalRate, MaxWithdrawalRate, p.WithdrawalRate)
	}
	if p.FixedInflation != nil {
		f := *p.FixedInflation
		if math.IsNaN(f) || f < 0 || f > MaxFixedInflation {
			v.Add("inflation must be between 0 and %.2f, got: %.4f", MaxFixedInflation, f)
		}
	}
	if math.IsNaN(p.StockAllocation) || p.StockAllocation < 0 || p.StockAllocation > 1 {
		v.Add("stock allocation must be between 0 and 1, got: %.4f", p.StockAllocation)
	}
	if _, err := ParseInflationRule(string(p.InflationRule)); err != nil {
		v.Add("unknown inflation rule %q", p.InflationRule)
	}

	return v.Err("validate_parameters")
}
