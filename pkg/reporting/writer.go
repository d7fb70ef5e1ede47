package reporting

import (
	"fmt"
	"time"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

// WriterFor returns the file reporter matching the extension of path
func WriterFor(path string) (FileReporter, error) {
	switch FormatFromPath(path) {
	case FormatJSON:
		return NewDefaultJSONReporter(), nil
	case FormatYAML:
		return NewDefaultYAMLReporter(), nil
	case FormatCSV:
		return NewDefaultCSVReporter(), nil
	case FormatXLSX:
		return NewDefaultExcelReporter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q: use .json, .yaml, .csv or .xlsx", path)
	}
}

// WriteReport writes report to path in the format its extension names
func WriteReport(report *types.SweepReport, path string) error {
	w, err := WriterFor(path)
	if err != nil {
		return err
	}
	return w.WriteReport(report, path)
}

// FromSimulation wraps a single-allocation result as a one-row report so it
// can go through the same writers
func FromSimulation(result *types.SimulationResult, params types.SweepParameters) *types.SweepReport {
	allocation := result.Allocation
	best := allocation
	params.Grid = []int{allocation.StockPercent}
	return &types.SweepReport{
		ID:                        result.ID,
		Status:                    types.SweepStatusComplete,
		Allocations:               []types.AllocationResult{allocation},
		Best:                      &best,
		TotalCombinations:         1,
		SimulationsPerCombination: allocation.Simulations(),
		TotalSimulations:          allocation.Simulations(),
		Seed:                      result.Seed,
		InitialPortfolio:          result.InitialPortfolio,
		InflationSource:           result.InflationSource,
		Parameters:                params,
		Duration:                  result.Duration,
		GeneratedAt:               time.Now().UTC(),
	}
}
