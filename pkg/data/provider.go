package data

import (
	"errors"
	"path/filepath"
	"strings"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
)

// DataManager picks a provider by file extension, caches raw rows and builds
// validated series.
type DataManager struct {
	csv     *CachedProvider
	xlsx    *CachedProvider
	locator FileLocator
	format  string
}

// NewDataManager creates a new data manager with default components
func NewDataManager() *DataManager {
	return NewDataManagerWithMapping(DefaultColumnMapping)
}

// NewDataManagerWithMapping creates a data manager whose providers use mapping
func NewDataManagerWithMapping(mapping ColumnMapping) *DataManager {
	return &DataManager{
		csv:     NewCachedProvider(NewCSVProviderWithMapping(mapping)),
		xlsx:    NewCachedProvider(NewXLSXProviderWithMapping(mapping)),
		locator: NewDefaultFileLocator(),
	}
}

// SetFormat forces "csv" or "xlsx" regardless of file extension; empty
// restores detection by extension
func (dm *DataManager) SetFormat(format string) error {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", "csv", "xlsx":
		dm.format = f
		return nil
	default:
		return simerrors.NewConfigurationError("data", "set_format", "unsupported dataset format: "+format)
	}
}

// ProviderFor returns the provider used for source
func (dm *DataManager) ProviderFor(source string) DataProvider {
	return dm.cachedFor(source)
}

func (dm *DataManager) cachedFor(source string) *CachedProvider {
	switch dm.format {
	case "csv":
		return dm.csv
	case "xlsx":
		return dm.xlsx
	}
	switch strings.ToLower(filepath.Ext(source)) {
	case ".xlsx", ".xlsm":
		return dm.xlsx
	default:
		return dm.csv
	}
}

// LoadSeries loads and validates the dataset at source
func (dm *DataManager) LoadSeries(source string, opts SeriesOptions) (*Series, error) {
	if strings.TrimSpace(source) == "" {
		return nil, simerrors.NewDataError("data", "load", "no dataset path configured")
	}

	provider := dm.cachedFor(source)
	rows, err := provider.LoadData(source)
	if err != nil {
		return nil, err
	}

	series, err := NewSeries(rows, opts)
	if err != nil {
		provider.Forget(source)
		return nil, withSource(err, source)
	}
	return series, nil
}

// withSource tags the first SimError in err's chain with the dataset path
func withSource(err error, source string) error {
	var se *simerrors.SimError
	if errors.As(err, &se) {
		se.WithContext("source", source)
	}
	return err
}

// FindDataFile locates a dataset under dataRoot
func (dm *DataManager) FindDataFile(dataRoot string) string {
	return dm.locator.FindDataFile(dataRoot)
}

// DefaultDataManager provides a shared instance so repeated loads hit the cache
var DefaultDataManager = NewDataManager()

// LoadSeries is a global convenience function
func LoadSeries(source string, opts SeriesOptions) (*Series, error) {
	return DefaultDataManager.LoadSeries(source, opts)
}
