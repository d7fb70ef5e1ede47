package common

import (
	"fmt"
	"os"

	"github.com/Nadirh/retirement-planning/internal/logger"
	"github.com/Nadirh/retirement-planning/pkg/config"
)

// EnvLoader loads .env files before configuration is read
type EnvLoader struct {
	log *logger.Logger
}

// NewEnvLoader creates an env loader that reports through log
func NewEnvLoader(log *logger.Logger) *EnvLoader {
	if log == nil {
		log = logger.Default()
	}
	return &EnvLoader{log: log}
}

// LoadEnvFile loads path if it exists; a missing file only logs at debug level
func (e *EnvLoader) LoadEnvFile(path string) error {
	loaded, err := config.LoadEnvFile(path)
	if err != nil {
		return err
	}
	if loaded {
		e.log.Debug("Loaded environment from %s", path)
	} else {
		e.log.Debug("No environment file at %s", path)
	}
	return nil
}

// SetupLogger builds the process logger from the logging config and installs
// it as the default
func SetupLogger(cfg config.LoggingConfig) (*logger.Logger, error) {
	level := logger.ParseLevel(cfg.Level)

	log := logger.New(os.Stderr, level)
	if cfg.File != "" {
		var err error
		log, err = logger.NewWithFile(os.Stderr, level, cfg.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
	}

	logger.SetDefault(log)
	return log, nil
}

// ExitOnError prints err to stderr and exits with status 1
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	os.Exit(1)
}
