package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

const (
	allocationsSheet = "Allocations"
	summarySheet     = "Summary"
)

// DefaultExcelReporter writes a workbook with an allocation table and a run summary
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteReport writes report to path
func (r *DefaultExcelReporter) WriteReport(report *types.SweepReport, path string) error {
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), allocationsSheet)
	if _, err := fx.NewSheet(summarySheet); err != nil {
		return err
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeAllocationsSheet(fx, report, styles); err != nil {
		return err
	}
	if err := r.writeSummarySheet(fx, report, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	lightBorder := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// $#,##0 with no decimals
	styles.CurrencyStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    5,
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    lightBorder,
	})
	if err != nil {
		return styles, err
	}

	// 0.0%
	pctFmt := "0.0%"
	styles.PercentStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: &pctFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       lightBorder,
	})
	if err != nil {
		return styles, err
	}

	decFmt := "0.0"
	styles.DecimalStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: &decFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       lightBorder,
	})
	if err != nil {
		return styles, err
	}

	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{Border: lightBorder})
	if err != nil {
		return styles, err
	}

	styles.BestStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "006100"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
		Border: lightBorder,
	})
	if err != nil {
		return styles, err
	}

	styles.LabelStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
		Border: lightBorder,
	})
	return styles, err
}

func (r *DefaultExcelReporter) writeAllocationsSheet(fx *excelize.File, report *types.SweepReport, styles ExcelStyles) error {
	sheet := allocationsSheet
	headers := []string{
		"Stock %", "Bond %", "Success Rate", "Successes", "Failures",
		"Avg Final Portfolio", "Final P10", "Final P50", "Final P90",
		"Median Years to Failure", "Mean Years to Failure",
	}
	fx.SetColWidth(sheet, "A", "E", 11)
	fx.SetColWidth(sheet, "F", "I", 18)
	fx.SetColWidth(sheet, "J", "K", 14)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}
	fx.SetRowHeight(sheet, 1, 30)

	for i, a := range report.Allocations {
		row := i + 2
		values := []interface{}{
			a.StockPercent,
			a.BondPercent,
			a.SuccessRate,
			a.SuccessCount,
			a.FailureCount,
			cellValue(a.AvgFinalPortfolioAmongSuccesses),
			cellValue(a.FinalPortfolioP10),
			cellValue(a.FinalPortfolioP50),
			cellValue(a.FinalPortfolioP90),
			cellValue(a.MedianYearsToFailureAmongFailures),
			cellValue(a.MeanYearsToFailure),
		}
		best := isBest(report, a)
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := fx.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
			fx.SetCellStyle(sheet, cell, cell, columnStyle(col, best, styles))
		}
	}

	return fx.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func columnStyle(col int, best bool, styles ExcelStyles) int {
	switch {
	case best && col <= 1:
		return styles.BestStyle
	case col == 2:
		return styles.PercentStyle
	case col >= 5 && col <= 8:
		return styles.CurrencyStyle
	case col >= 9:
		return styles.DecimalStyle
	default:
		return styles.BaseStyle
	}
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, report *types.SweepReport, styles ExcelStyles) error {
	sheet := summarySheet
	fx.SetColWidth(sheet, "A", "A", 28)
	fx.SetColWidth(sheet, "B", "B", 32)

	best := "none"
	if report.Best != nil {
		best = fmt.Sprintf("%d/%d (%.1f%%)", report.Best.StockPercent, report.Best.BondPercent, report.Best.SuccessRate*100)
	}
	inflation := report.Parameters.InflationRule
	if report.Parameters.FixedInflation != nil {
		inflation = fmt.Sprintf("fixed %.2f%%", *report.Parameters.FixedInflation*100)
	}

	rows := [][]interface{}{
		{"Report ID", report.ID},
		{"Status", string(report.Status)},
		{"Generated At", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Horizon (years)", report.Parameters.HorizonYears},
		{"Withdrawal Rate", fmt.Sprintf("%.2f%%", report.Parameters.WithdrawalRate*100)},
		{"Inflation", inflation},
		{"Initial Portfolio", report.InitialPortfolio},
		{"Allocations", report.TotalCombinations},
		{"Simulations per Allocation", report.SimulationsPerCombination},
		{"Total Simulations", report.TotalSimulations},
		{"Seed", fmt.Sprintf("%d", report.Seed)},
		{"Duration", report.Duration.String()},
		{"Best Allocation", best},
	}

	for i, values := range rows {
		row := i + 1
		label, _ := excelize.CoordinatesToCellName(1, row)
		value, _ := excelize.CoordinatesToCellName(2, row)
		if err := fx.SetCellValue(sheet, label, values[0]); err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, value, values[1]); err != nil {
			return err
		}
		fx.SetCellStyle(sheet, label, label, styles.LabelStyle)
		fx.SetCellStyle(sheet, value, value, styles.BaseStyle)
	}
	return nil
}

// cellValue leaves the cell empty for a missing statistic
func cellValue(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
