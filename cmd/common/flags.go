package common

import (
	"math"
	"os"
	"strings"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
)

// FlagValidator checks command-line values before any dataset is loaded or
// simulation started. Every problem found ends up in one VALIDATION error.
type FlagValidator struct {
	problems simerrors.ValidationErrors
}

// NewFlagValidator creates a validator reporting under the "flags" component
func NewFlagValidator() *FlagValidator {
	return &FlagValidator{problems: simerrors.ValidationErrors{Component: "flags"}}
}

// ValidateFloat requires min <= value <= max; NaN never passes
func (v *FlagValidator) ValidateFloat(name string, value, min, max float64) *FlagValidator {
	if math.IsNaN(value) || value < min || value > max {
		v.problems.Add("--%s must be between %g and %g, got: %g", name, min, max, value)
	}
	return v
}

// ValidateInt requires min <= value <= max
func (v *FlagValidator) ValidateInt(name string, value, min, max int) *FlagValidator {
	if value < min || value > max {
		v.problems.Add("--%s must be between %d and %d, got: %d", name, min, max, value)
	}
	return v
}

// ValidateChoice requires value to be exactly one of choices
func (v *FlagValidator) ValidateChoice(name, value string, choices []string) *FlagValidator {
	for _, choice := range choices {
		if value == choice {
			return v
		}
	}
	v.problems.Add("--%s must be one of [%s], got: %s", name, strings.Join(choices, ", "), value)
	return v
}

// ValidateFile requires path to name an existing regular file. An empty path
// passes unless required.
func (v *FlagValidator) ValidateFile(name, path string, required bool) *FlagValidator {
	if path == "" {
		if required {
			v.problems.Add("--%s is required", name)
		}
		return v
	}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		v.problems.Add("--%s file does not exist: %s", name, path)
	case err != nil:
		v.problems.Add("--%s file cannot be read: %v", name, err)
	case info.IsDir():
		v.problems.Add("--%s must be a file, got directory: %s", name, path)
	}
	return v
}

// Err returns nil when every check passed
func (v *FlagValidator) Err() error {
	return v.problems.Err("validate_flags")
}
