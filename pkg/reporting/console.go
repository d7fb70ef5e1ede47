package reporting

import (
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

// DefaultConsoleReporter renders reports as go-pretty tables
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// PrintSweep prints one row per allocation followed by a run summary
func (r *DefaultConsoleReporter) PrintSweep(w io.Writer, report *types.SweepReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("ALLOCATION SWEEP: %d years, %.2f%% withdrawal",
		report.Parameters.HorizonYears, report.Parameters.WithdrawalRate*100))
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"", "Stock", "Bond", "Success", "Avg Final", "P10", "P50", "P90", "Median Fail (yrs)"})
	for _, a := range report.Allocations {
		marker := ""
		if isBest(report, a) {
			marker = "★"
		}
		t.AppendRow(table.Row{
			marker,
			fmt.Sprintf("%d%%", a.StockPercent),
			fmt.Sprintf("%d%%", a.BondPercent),
			fmt.Sprintf("%.1f%%", a.SuccessRate*100),
			money(a.AvgFinalPortfolioAmongSuccesses),
			money(a.FinalPortfolioP10),
			money(a.FinalPortfolioP50),
			money(a.FinalPortfolioP90),
			years(a.MedianYearsToFailureAmongFailures),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignCenter},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(w)

	r.printRunSummary(w, report)
}

func (r *DefaultConsoleReporter) printRunSummary(w io.Writer, report *types.SweepReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("RUN SUMMARY")
	t.SetStyle(table.StyleRounded)

	best := "none"
	if report.Best != nil {
		best = fmt.Sprintf("%d/%d stock/bond (%.1f%% success)",
			report.Best.StockPercent, report.Best.BondPercent, report.Best.SuccessRate*100)
	}

	t.AppendRows([]table.Row{
		{"🆔 Report", report.ID},
		{"📋 Status", string(report.Status)},
		{"🏆 Best", best},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"🔁 Simulations", fmt.Sprintf("%d x %d = %d", report.TotalCombinations, report.SimulationsPerCombination, report.TotalSimulations)},
		{"📈 Inflation", inflationLabel(report.InflationSource, report.Parameters.FixedInflation, report.Parameters.InflationRule)},
		{"🎲 Seed", fmt.Sprintf("%d", report.Seed)},
		{"⏱️ Duration", report.Duration.String()},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 16, Align: text.AlignLeft},
		{Number: 2, WidthMin: 30, Align: text.AlignLeft},
	})
	t.Render()
}

// PrintSimulation prints a single-allocation result
func (r *DefaultConsoleReporter) PrintSimulation(w io.Writer, result *types.SimulationResult) {
	a := result.Allocation
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("SIMULATION %d/%d", a.StockPercent, a.BondPercent))
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"✅ Success Rate", fmt.Sprintf("%.1f%% (%d/%d)", a.SuccessRate*100, a.SuccessCount, a.Simulations())},
		{"💰 Avg Final", money(a.AvgFinalPortfolioAmongSuccesses)},
		{"📊 P10 / P50 / P90", fmt.Sprintf("%s / %s / %s", money(a.FinalPortfolioP10), money(a.FinalPortfolioP50), money(a.FinalPortfolioP90))},
		{"📉 Median Failure", years(a.MedianYearsToFailureAmongFailures)},
		{"📉 Mean Failure", years(a.MeanYearsToFailure)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"🆔 ID", result.ID},
		{"📈 Inflation", string(result.InflationSource)},
		{"🎲 Seed", fmt.Sprintf("%d", result.Seed)},
		{"⏱️ Duration", result.Duration.String()},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 30, Align: text.AlignLeft},
	})
	t.Render()
}

// PrintSeriesSummary prints the statistics of a loaded dataset
func (r *DefaultConsoleReporter) PrintSeriesSummary(w io.Writer, source string, summary types.SeriesSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("DATASET")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"📁 Source", source},
		{"🗓️ Range", fmt.Sprintf("%s to %s", summary.From.Format("2006-01"), summary.To.Format("2006-01"))},
		{"🔢 Months", summary.Months},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"📈 Stocks (ann.)", fmt.Sprintf("%.2f%%", summary.AnnualizedStock*100)},
		{"📈 Bonds (ann.)", fmt.Sprintf("%.2f%%", summary.AnnualizedBond*100)},
		{"💸 Inflation (mean)", fmt.Sprintf("%.2f%%", summary.MeanAnnualInflation*100)},
		{"📉 Worst stock month", fmt.Sprintf("%.2f%%", summary.WorstStockMonth*100)},
		{"📉 Worst bond month", fmt.Sprintf("%.2f%%", summary.WorstBondMonth*100)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 20, Align: text.AlignLeft},
		{Number: 2, WidthMin: 24, Align: text.AlignLeft},
	})
	t.Render()
}

func inflationLabel(source types.InflationSource, fixed *float64, rule string) string {
	if source == types.InflationSourceFixed && fixed != nil {
		return fmt.Sprintf("fixed %.2f%%", *fixed*100)
	}
	return fmt.Sprintf("bootstrap (%s)", rule)
}

func money(v *float64) string {
	if v == nil {
		return "-"
	}
	return "$" + humanize.Comma(int64(math.Round(*v)))
}

func years(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
