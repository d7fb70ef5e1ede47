package config

import (
	"os"

	"github.com/joho/godotenv"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
)

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an
// error; it reports whether anything was loaded.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		path = ".env"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}

	if err := godotenv.Load(path); err != nil {
		return false, simerrors.WrapError(err, simerrors.ErrorCategoryConfiguration, "config", "load_env").
			WithContext("path", path)
	}
	return true, nil
}
