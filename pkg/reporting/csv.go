package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

var csvHeaders = []string{
	"Stock_%",
	"Bond_%",
	"Success_Rate_%",
	"Successes",
	"Failures",
	"Avg_Final_Portfolio_$",
	"Final_P10_$",
	"Final_P50_$",
	"Final_P90_$",
	"Median_Years_To_Failure",
	"Mean_Years_To_Failure",
	"Best",
}

// DefaultCSVReporter writes one row per allocation plus a summary row
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

// WriteReport writes report to path
func (r *DefaultCSVReporter) WriteReport(report *types.SweepReport, path string) error {
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeaders); err != nil {
		return err
	}

	for _, a := range report.Allocations {
		best := ""
		if isBest(report, a) {
			best = "*"
		}
		row := []string{
			strconv.Itoa(a.StockPercent),
			strconv.Itoa(a.BondPercent),
			fmt.Sprintf("%.1f", a.SuccessRate*100),
			strconv.Itoa(a.SuccessCount),
			strconv.Itoa(a.FailureCount),
			optional(a.AvgFinalPortfolioAmongSuccesses, "%.0f"),
			optional(a.FinalPortfolioP10, "%.0f"),
			optional(a.FinalPortfolioP50, "%.0f"),
			optional(a.FinalPortfolioP90, "%.0f"),
			optional(a.MedianYearsToFailureAmongFailures, "%.1f"),
			optional(a.MeanYearsToFailure, "%.1f"),
			best,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("SUMMARY: id=%s; status=%s; seed=%d; total_simulations=%d; inflation=%s",
		report.ID, report.Status, report.Seed, report.TotalSimulations, report.InflationSource)
	summaryRow := make([]string, len(csvHeaders))
	summaryRow[len(summaryRow)-1] = summary
	if err := w.Write(summaryRow); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func optional(v *float64, format string) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf(format, *v)
}

func isBest(report *types.SweepReport, a types.AllocationResult) bool {
	return report.Best != nil && report.Best.StockPercent == a.StockPercent
}
