package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

// DefaultJSONReporter writes reports as indented JSON
type DefaultJSONReporter struct{}

// NewDefaultJSONReporter creates a new JSON reporter
func NewDefaultJSONReporter() *DefaultJSONReporter {
	return &DefaultJSONReporter{}
}

// Format encodes v as indented JSON
func (r *DefaultJSONReporter) Format(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// WriteReport writes report to path
func (r *DefaultJSONReporter) WriteReport(report *types.SweepReport, path string) error {
	data, err := r.Format(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// PrintJSON writes v to w as indented JSON
func PrintJSON(w io.Writer, v interface{}) error {
	data, err := NewDefaultJSONReporter().Format(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
