package data

import (
	"github.com/Nadirh/retirement-planning/pkg/types"
)

// DataProvider loads raw monthly observations from a source. Providers must
// fail on any malformed row instead of skipping it.
type DataProvider interface {
	// LoadData loads historical data from the specified source
	LoadData(source string) ([]types.MonthlyObservation, error)

	// GetName returns the name of the data provider
	GetName() string
}

// DataCache interface for caching loaded data
type DataCache interface {
	// Get retrieves data from cache if available
	Get(key string) ([]types.MonthlyObservation, bool)

	// Set stores data in cache
	Set(key string, data []types.MonthlyObservation)

	// Delete drops the entry for key
	Delete(key string)
}

// FileLocator interface for finding dataset files
type FileLocator interface {
	// FindDataFile looks for a known dataset file under dataRoot
	FindDataFile(dataRoot string) string
}

// ColumnMapping names the header of each required column. When
// PercentValues is set, numeric cells are percentages and get divided by 100.
type ColumnMapping struct {
	Date             string `mapstructure:"date"`
	StockReturn      string `mapstructure:"stock_return"`
	BondReturn       string `mapstructure:"bond_return"`
	MonthlyInflation string `mapstructure:"monthly_inflation"`
	AnnualInflation  string `mapstructure:"annual_inflation"`
	PercentValues    bool   `mapstructure:"percent_values"`
}

// DefaultColumnMapping matches the monthly_returns table produced by the
// historical data download job.
var DefaultColumnMapping = ColumnMapping{
	Date:             "Date",
	StockReturn:      "SP500_Total_Return",
	BondReturn:       "Treasury_5Y_Total_Return",
	MonthlyInflation: "Inflation_Monthly",
	AnnualInflation:  "Inflation_Annual",
	PercentValues:    true,
}

// DateFormats lists the accepted layouts for the date column
var DateFormats = []string{
	"2006-01-02",
	"2006-01",
	"2006-01-02 15:04:05",
	"2006/01/02",
}
