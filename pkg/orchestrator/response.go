package orchestrator

import (
	"math"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

// AllocationView is one allocation row of a sweep response
type AllocationView struct {
	StockPercent         int      `json:"stockPercent"`
	BondPercent          int      `json:"bondPercent"`
	SuccessRate          float64  `json:"successRate"`
	SuccessRatePercent   float64  `json:"successRatePercent"`
	Successes            int      `json:"successes"`
	Failures             int      `json:"failures"`
	AvgFinalPortfolio    *float64 `json:"avgFinalPortfolio"`
	MedianYearsToFailure *float64 `json:"medianYearsToFailure"`
}

// BestAllocationView names the winning allocation
type BestAllocationView struct {
	StockPercent       int     `json:"stockPercent"`
	BondPercent        int     `json:"bondPercent"`
	SuccessRate        float64 `json:"successRate"`
	SuccessRatePercent float64 `json:"successRatePercent"`
}

// SweepResponse is the wire form of a SweepReport
type SweepResponse struct {
	Type                      string              `json:"type"`
	ID                        string              `json:"id"`
	Status                    types.SweepStatus   `json:"status"`
	Allocations               []AllocationView    `json:"allocations"`
	BestAllocation            *BestAllocationView `json:"bestAllocation"`
	TotalCombinations         int                 `json:"totalCombinations"`
	SimulationsPerCombination int                 `json:"simulationsPerCombination"`
	TotalSimulations          int                 `json:"totalSimulations"`
	UsedBootstrap             bool                `json:"usedBootstrap"`
	Seed                      uint64              `json:"seed"`
	DurationMs                int64               `json:"durationMs"`
}

// SingleDetails carries the secondary statistics of a single run
type SingleDetails struct {
	AvgFinalPortfolio    *float64 `json:"avgFinalPortfolio"`
	MedianYearsToFailure *float64 `json:"medianYearsToFailure"`
	MeanYearsToFailure   *float64 `json:"meanYearsToFailure,omitempty"`
	FinalPortfolioP10    *float64 `json:"finalPortfolioP10,omitempty"`
	FinalPortfolioP50    *float64 `json:"finalPortfolioP50,omitempty"`
	FinalPortfolioP90    *float64 `json:"finalPortfolioP90,omitempty"`
	UsedBootstrap        bool     `json:"usedBootstrap"`
}

// SingleResponse is the wire form of a SimulationResult
type SingleResponse struct {
	Type               string        `json:"type"`
	ID                 string        `json:"id"`
	StockPercent       int           `json:"stockPercent"`
	BondPercent        int           `json:"bondPercent"`
	SuccessRate        float64       `json:"successRate"`
	SuccessRatePercent float64       `json:"successRatePercent"`
	TotalSimulations   int           `json:"totalSimulations"`
	Successes          int           `json:"successes"`
	Failures           int           `json:"failures"`
	Details            SingleDetails `json:"details"`
	Seed               uint64        `json:"seed"`
	DurationMs         int64         `json:"durationMs"`
}

// NewSweepResponse converts a report, complete or partial
func NewSweepResponse(report *types.SweepReport) *SweepResponse {
	resp := &SweepResponse{
		Type:                      string(WorkflowTypeSweep),
		ID:                        report.ID,
		Status:                    report.Status,
		Allocations:               make([]AllocationView, 0, len(report.Allocations)),
		TotalCombinations:         report.TotalCombinations,
		SimulationsPerCombination: report.SimulationsPerCombination,
		TotalSimulations:          report.TotalSimulations,
		UsedBootstrap:             report.InflationSource == types.InflationSourceBootstrap,
		Seed:                      report.Seed,
		DurationMs:                report.Duration.Milliseconds(),
	}

	for _, a := range report.Allocations {
		resp.Allocations = append(resp.Allocations, AllocationView{
			StockPercent:         a.StockPercent,
			BondPercent:          a.BondPercent,
			SuccessRate:          a.SuccessRate,
			SuccessRatePercent:   roundTo(a.SuccessRate*100, 1),
			Successes:            a.SuccessCount,
			Failures:             a.FailureCount,
			AvgFinalPortfolio:    roundPtr(a.AvgFinalPortfolioAmongSuccesses, 0),
			MedianYearsToFailure: roundPtr(a.MedianYearsToFailureAmongFailures, 1),
		})
	}

	if report.Best != nil {
		resp.BestAllocation = &BestAllocationView{
			StockPercent:       report.Best.StockPercent,
			BondPercent:        report.Best.BondPercent,
			SuccessRate:        report.Best.SuccessRate,
			SuccessRatePercent: roundTo(report.Best.SuccessRate*100, 1),
		}
	}
	return resp
}

// NewSingleResponse converts a single-allocation result
func NewSingleResponse(result *types.SimulationResult) *SingleResponse {
	a := result.Allocation
	return &SingleResponse{
		Type:               string(WorkflowTypeSingle),
		ID:                 result.ID,
		StockPercent:       a.StockPercent,
		BondPercent:        a.BondPercent,
		SuccessRate:        a.SuccessRate,
		SuccessRatePercent: roundTo(a.SuccessRate*100, 1),
		TotalSimulations:   a.Simulations(),
		Successes:          a.SuccessCount,
		Failures:           a.FailureCount,
		Details: SingleDetails{
			AvgFinalPortfolio:    roundPtr(a.AvgFinalPortfolioAmongSuccesses, 0),
			MedianYearsToFailure: roundPtr(a.MedianYearsToFailureAmongFailures, 1),
			MeanYearsToFailure:   roundPtr(a.MeanYearsToFailure, 1),
			FinalPortfolioP10:    roundPtr(a.FinalPortfolioP10, 0),
			FinalPortfolioP50:    roundPtr(a.FinalPortfolioP50, 0),
			FinalPortfolioP90:    roundPtr(a.FinalPortfolioP90, 0),
			UsedBootstrap:        result.InflationSource == types.InflationSourceBootstrap,
		},
		Seed:       result.Seed,
		DurationMs: result.Duration.Milliseconds(),
	}
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

func roundPtr(v *float64, decimals int) *float64 {
	if v == nil {
		return nil
	}
	r := roundTo(*v, decimals)
	return &r
}
