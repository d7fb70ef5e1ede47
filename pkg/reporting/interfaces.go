// Package reporting renders sweep reports to the console and to files
package reporting

import (
	"io"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	PrintSweep(w io.Writer, report *types.SweepReport)
	PrintSimulation(w io.Writer, result *types.SimulationResult)
	PrintSeriesSummary(w io.Writer, source string, summary types.SeriesSummary)
}

// FileReporter writes a report to path in one format
type FileReporter interface {
	WriteReport(report *types.SweepReport, path string) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputPath(outputDir, reportID, format string) string
	EnsureDirectoryExists(path string) error
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle   int
	CurrencyStyle int
	PercentStyle  int
	DecimalStyle  int
	BaseStyle     int
	BestStyle     int
	LabelStyle    int
}

// Output formats, named by file extension
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)
