package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

func TestNewSweepResponse_Rounding(t *testing.T) {
	report := &types.SweepReport{
		ID:     "01J0000000000000000000000",
		Status: types.SweepStatusComplete,
		Allocations: []types.AllocationResult{
			{
				StockPercent: 40, BondPercent: 60,
				SuccessRate: 0.8766, SuccessCount: 8766, FailureCount: 1234,
				AvgFinalPortfolioAmongSuccesses:   floatPtr(1234567.89),
				MedianYearsToFailureAmongFailures: floatPtr(21.4166),
			},
		},
		TotalCombinations:         1,
		SimulationsPerCombination: 10000,
		TotalSimulations:          10000,
		InflationSource:           types.InflationSourceFixed,
		Seed:                      11,
		Duration:                  1500 * time.Millisecond,
	}
	report.Best = &report.Allocations[0]

	resp := NewSweepResponse(report)

	require.Len(t, resp.Allocations, 1)
	a := resp.Allocations[0]
	assert.Equal(t, 0.8766, a.SuccessRate)
	assert.Equal(t, 87.7, a.SuccessRatePercent)
	assert.Equal(t, 8766, a.Successes)
	assert.Equal(t, 1234, a.Failures)
	assert.Equal(t, 1234568.0, *a.AvgFinalPortfolio)
	assert.Equal(t, 21.4, *a.MedianYearsToFailure)
	require.NotNil(t, resp.BestAllocation)
	assert.Equal(t, 87.7, resp.BestAllocation.SuccessRatePercent)
	assert.False(t, resp.UsedBootstrap)
	assert.Equal(t, int64(1500), resp.DurationMs)
	assert.Equal(t, uint64(11), resp.Seed)
}

func TestNewSweepResponse_PartialReport(t *testing.T) {
	resp := NewSweepResponse(&types.SweepReport{Status: types.SweepStatusTimeout, TotalCombinations: 11})
	assert.Equal(t, types.SweepStatusTimeout, resp.Status)
	assert.Nil(t, resp.BestAllocation)
	assert.NotNil(t, resp.Allocations)
	assert.Empty(t, resp.Allocations)
}

func TestNewSingleResponse(t *testing.T) {
	resp := NewSingleResponse(&types.SimulationResult{
		ID: "x",
		Allocation: types.AllocationResult{
			StockPercent: 70, BondPercent: 30,
			SuccessRate: 0.9, SuccessCount: 90, FailureCount: 10,
			MedianYearsToFailureAmongFailures: floatPtr(18.25),
			MeanYearsToFailure:                floatPtr(17.96),
		},
		InflationSource: types.InflationSourceBootstrap,
		Seed:            5,
	})

	assert.Equal(t, 100, resp.TotalSimulations)
	assert.Equal(t, 90.0, resp.SuccessRatePercent)
	assert.Nil(t, resp.Details.AvgFinalPortfolio)
	assert.Equal(t, 18.3, *resp.Details.MedianYearsToFailure)
	assert.Equal(t, 18.0, *resp.Details.MeanYearsToFailure)
	assert.True(t, resp.Details.UsedBootstrap)
}
