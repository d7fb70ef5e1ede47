package orchestrator

import (
	"sync"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/pkg/config"
	"github.com/Nadirh/retirement-planning/pkg/data"
)

// DatasetLoader loads the configured dataset on first use and keeps it. A
// failed load is retried on the next call.
type DatasetLoader struct {
	manager *data.DataManager
	path    string
	opts    data.SeriesOptions

	mu     sync.Mutex
	series *data.Series
	onLoad func(source string, series *data.Series)
}

// NewDatasetLoader creates a loader for path
func NewDatasetLoader(manager *data.DataManager, path string, opts data.SeriesOptions) *DatasetLoader {
	return &DatasetLoader{manager: manager, path: path, opts: opts}
}

// NewDatasetLoaderFromConfig resolves the dataset path, column mapping,
// format and date range from cfg
func NewDatasetLoaderFromConfig(cfg *config.Config) (*DatasetLoader, error) {
	manager, err := cfg.DataManager()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.SeriesOptions()
	if err != nil {
		return nil, err
	}
	path := cfg.DatasetPath(manager)
	if path == "" {
		return nil, simerrors.NewDataError("orchestrator", "locate_dataset", "no dataset file configured or found").
			WithContext("root", cfg.Data.Root)
	}
	return NewDatasetLoader(manager, path, opts), nil
}

// Path returns the dataset location
func (l *DatasetLoader) Path() string {
	return l.path
}

// OnLoad sets a hook run once, after the first successful load. fn runs
// under the loader's lock and must not call Series.
func (l *DatasetLoader) OnLoad(fn func(source string, series *data.Series)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onLoad = fn
}

// Series returns the loaded series, loading it if needed
func (l *DatasetLoader) Series() (*data.Series, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.series != nil {
		return l.series, nil
	}
	series, err := l.manager.LoadSeries(l.path, l.opts)
	if err != nil {
		return nil, err
	}
	l.series = series
	if l.onLoad != nil {
		l.onLoad(l.path, series)
	}
	return series, nil
}

// StaticSeries serves a fixed series, or a fixed error when the dataset
// could not be located at all
type StaticSeries struct {
	series *data.Series
	err    error
}

// NewStaticSeries wraps series
func NewStaticSeries(series *data.Series) *StaticSeries {
	return &StaticSeries{series: series}
}

// NewUnavailableSeries answers every load with err
func NewUnavailableSeries(err error) *StaticSeries {
	return &StaticSeries{err: err}
}

// Series returns the wrapped series or error
func (s *StaticSeries) Series() (*data.Series, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.series == nil {
		return nil, simerrors.NewDataError("orchestrator", "series", "no dataset loaded")
	}
	return s.series, nil
}
