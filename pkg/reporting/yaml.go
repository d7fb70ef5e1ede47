package reporting

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

// DefaultYAMLReporter writes reports as YAML
type DefaultYAMLReporter struct{}

// NewDefaultYAMLReporter creates a new YAML reporter
func NewDefaultYAMLReporter() *DefaultYAMLReporter {
	return &DefaultYAMLReporter{}
}

// WriteReport writes report to path
func (r *DefaultYAMLReporter) WriteReport(report *types.SweepReport, path string) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
