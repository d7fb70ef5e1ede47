package orchestrator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/internal/simulation"
	"github.com/Nadirh/retirement-planning/internal/sweep"
)

var testLimits = Limits{DefaultIterations: 100, MaxIterations: 1000}

func TestRequest_PlanDefaults(t *testing.T) {
	plan, err := Request{}.Plan(testLimits)
	require.NoError(t, err)

	assert.Equal(t, WorkflowTypeSingle, plan.Workflow)
	assert.Equal(t, 25, plan.Params.HorizonYears)
	assert.InDelta(t, 0.05, plan.Params.WithdrawalRate, 1e-12)
	assert.Nil(t, plan.Params.FixedInflation)
	assert.InDelta(t, 0.7, plan.Params.StockAllocation, 1e-12)
	assert.Equal(t, simulation.InflationRuleCompoundMonthly, plan.Params.InflationRule)
	assert.Equal(t, 100, plan.Iterations)
	assert.NotZero(t, plan.Seed)
	assert.Nil(t, plan.Grid)
}

func TestRequest_PlanFromJSON(t *testing.T) {
	body := `{"years":30,"withdrawalRate":4.5,"inflation":3,"allocationSweep":true,
		"simulationsPerAllocation":250,"seed":77,"inflationRule":"annual-field"}`
	var req Request
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	plan, err := req.Plan(testLimits)
	require.NoError(t, err)

	assert.Equal(t, WorkflowTypeSweep, plan.Workflow)
	assert.Equal(t, 30, plan.Params.HorizonYears)
	assert.InDelta(t, 0.045, plan.Params.WithdrawalRate, 1e-12)
	require.NotNil(t, plan.Params.FixedInflation)
	assert.InDelta(t, 0.03, *plan.Params.FixedInflation, 1e-12)
	assert.Equal(t, simulation.InflationRuleAnnualField, plan.Params.InflationRule)
	assert.Equal(t, sweep.DefaultGrid(), plan.Grid)
	assert.Equal(t, 250, plan.Iterations)
	assert.Equal(t, uint64(77), plan.Seed)
}

func TestRequest_PlanNullInflationUsesBootstrap(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"inflation":null}`), &req))
	plan, err := req.Plan(testLimits)
	require.NoError(t, err)
	assert.True(t, plan.Params.UsesBootstrapInflation())
}

func TestRequest_PlanGrid(t *testing.T) {
	plan, err := Request{AllocationSweep: true, GridStep: 25}.Plan(testLimits)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 25, 50, 75, 100}, plan.Grid)

	plan, err = Request{AllocationSweep: true, StockAllocationGrid: []int{0, 50, 100}}.Plan(testLimits)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 50, 100}, plan.Grid)
}

func TestRequest_PlanSeed(t *testing.T) {
	plan, err := Request{}.Plan(Limits{DefaultSeed: 9})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), plan.Seed)

	plan, err = Request{Seed: uintPtr(0)}.Plan(Limits{DefaultSeed: 9})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), plan.Seed)

	plan, err = Request{Seed: uintPtr(5)}.Plan(Limits{DefaultSeed: 9})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), plan.Seed)
}

func TestRequest_PlanValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{name: "years low", req: Request{Years: intPtr(0)}, wantErr: "years must be between 1 and 60"},
		{name: "years high", req: Request{Years: intPtr(61)}, wantErr: "years must be between 1 and 60"},
		{name: "zero withdrawal", req: Request{WithdrawalRate: floatPtr(0)}, wantErr: "withdrawalRate"},
		{name: "withdrawal high", req: Request{WithdrawalRate: floatPtr(20.5)}, wantErr: "withdrawalRate"},
		{name: "negative inflation", req: Request{Inflation: floatPtr(-1)}, wantErr: "inflation must be between"},
		{name: "inflation high", req: Request{Inflation: floatPtr(12)}, wantErr: "inflation must be between"},
		{name: "stock high", req: Request{StockAllocation: floatPtr(120)}, wantErr: "stockAllocation"},
		{name: "bond mismatch", req: Request{StockAllocation: floatPtr(60), BondAllocation: floatPtr(30)}, wantErr: "bondAllocation must equal"},
		{name: "no simulations", req: Request{SimulationsPerAllocation: intPtr(0)}, wantErr: "simulationsPerAllocation"},
		{name: "too many simulations", req: Request{SimulationsPerAllocation: intPtr(1001)}, wantErr: "simulationsPerAllocation"},
		{name: "bad rule", req: Request{InflationRule: "daily"}, wantErr: "inflationRule"},
		{name: "grid and step", req: Request{AllocationSweep: true, GridStep: 10, StockAllocationGrid: []int{0}}, wantErr: "either"},
		{name: "bad grid", req: Request{AllocationSweep: true, StockAllocationGrid: []int{50, 10}}, wantErr: "stockAllocationGrid"},
		{name: "bad step", req: Request{AllocationSweep: true, GridStep: -5}, wantErr: "gridStep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Plan(testLimits)
			require.Error(t, err)
			assert.True(t, simerrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequest_PlanBoundsInclusive(t *testing.T) {
	req := Request{
		Years:          intPtr(60),
		WithdrawalRate: floatPtr(0.1),
		Inflation:      floatPtr(10),
		BondAllocation: floatPtr(0),
	}
	req.StockAllocation = floatPtr(100)
	_, err := req.Plan(testLimits)
	assert.NoError(t, err)

	req.WithdrawalRate = floatPtr(20)
	req.Inflation = floatPtr(0)
	_, err = req.Plan(testLimits)
	assert.NoError(t, err)
}
