package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPathManager implements path management functionality
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// GetDefaultOutputPath returns <outputDir>/sweep_<reportID>.<format>
func (p *DefaultPathManager) GetDefaultOutputPath(outputDir, reportID, format string) string {
	if outputDir == "" {
		outputDir = "results"
	}
	id := strings.TrimSpace(reportID)
	if id == "" {
		id = "unknown"
	}
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	if format == "" {
		format = FormatJSON
	}
	return filepath.Join(outputDir, fmt.Sprintf("sweep_%s.%s", id, format))
}

// EnsureDirectoryExists creates the parent directory of path if needed
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// DefaultOutputPath is a convenience wrapper around DefaultPathManager
func DefaultOutputPath(outputDir, reportID, format string) string {
	return NewDefaultPathManager().GetDefaultOutputPath(outputDir, reportID, format)
}

// FormatFromPath returns the output format implied by the path extension
func FormatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "yml" {
		return FormatYAML
	}
	return ext
}
