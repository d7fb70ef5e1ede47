package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Nadirh/retirement-planning/pkg/data"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

func month(stock, bond, monthlyInfl, annualInfl float64) types.MonthlyObservation {
	return types.MonthlyObservation{
		StockReturn:      stock,
		BondReturn:       bond,
		MonthlyInflation: monthlyInfl,
		AnnualInflation:  annualInfl,
	}
}

// historicalSeries builds a volatile 120 month series with crashes and rallies
func historicalSeries(t *testing.T) *data.Series {
	t.Helper()
	pattern := []types.MonthlyObservation{
		month(0.045, 0.004, 0.002, 0.031),
		month(-0.082, 0.015, 0.003, 0.028),
		month(0.021, -0.006, 0.001, 0.025),
		month(0.067, 0.002, 0.004, 0.042),
		month(-0.168, 0.021, -0.001, 0.019),
		month(0.012, 0.003, 0.002, 0.024),
	}
	obs := make([]types.MonthlyObservation, 120)
	start := time.Date(1988, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range obs {
		obs[i] = pattern[i%len(pattern)]
		obs[i].Date = start.AddDate(0, i, 0)
	}
	series, err := data.NewSeries(obs, data.SeriesOptions{})
	require.NoError(t, err)
	return series
}

func params(years int, rate, stock float64) Parameters {
	return Parameters{
		HorizonYears:    years,
		WithdrawalRate:  rate,
		StockAllocation: stock,
		InflationRule:   InflationRuleCompoundMonthly,
	}
}

func float(v float64) *float64 {
	return &v
}
