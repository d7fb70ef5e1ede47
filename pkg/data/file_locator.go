package data

import (
	"os"
	"path/filepath"

	"github.com/Nadirh/retirement-planning/internal/logger"
)

// DatasetFileNames are tried in order when no dataset path is configured
var DatasetFileNames = []string{
	"monthly_returns.csv",
	"historical_returns.csv",
	"monthly_returns.xlsx",
}

// DefaultFileLocator implements FileLocator for standard file system operations
type DefaultFileLocator struct{}

// NewDefaultFileLocator creates a new default file locator
func NewDefaultFileLocator() *DefaultFileLocator {
	return &DefaultFileLocator{}
}

// FindDataFile looks for a dataset in dataRoot and dataRoot/data.
// Returns empty string if no file is found.
func (f *DefaultFileLocator) FindDataFile(dataRoot string) string {
	if dataRoot == "" {
		dataRoot = "."
	}

	var attemptedPaths []string
	for _, dir := range []string{dataRoot, filepath.Join(dataRoot, "data")} {
		for _, name := range DatasetFileNames {
			path := filepath.Join(dir, name)
			attemptedPaths = append(attemptedPaths, path)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}

	logger.Warn("No dataset found under %s, tried:", dataRoot)
	for _, path := range attemptedPaths {
		logger.Warn("   - %s", path)
	}
	return ""
}
