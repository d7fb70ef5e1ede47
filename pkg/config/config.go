// Package config loads the simulator configuration from a config file,
// RETIRE_SIM_* environment variables and built-in defaults.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/pkg/data"
)

// EnvPrefix prefixes every environment override, e.g.
// RETIRE_SIM_SIMULATION_ITERATIONS
const EnvPrefix = "RETIRE_SIM"

// Config represents the complete application configuration
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Data       DataConfig       `mapstructure:"data"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Reporting  ReportingConfig  `mapstructure:"reporting"`
}

// SimulationConfig holds Monte Carlo settings
type SimulationConfig struct {
	Iterations       int           `mapstructure:"iterations"`
	MaxIterations    int           `mapstructure:"max_iterations"`
	Seed             uint64        `mapstructure:"seed"`
	InitialPortfolio float64       `mapstructure:"initial_portfolio"`
	Workers          int           `mapstructure:"workers"`
	TimeBudget       time.Duration `mapstructure:"time_budget"`
	InflationRule    string        `mapstructure:"inflation_rule"`
}

// DataConfig describes where the historical dataset lives and how to read it
type DataConfig struct {
	File      string             `mapstructure:"file"`
	Root      string             `mapstructure:"root"`
	Format    string             `mapstructure:"format"`
	MinMonths int                `mapstructure:"min_months"`
	DateFrom  string             `mapstructure:"date_from"`
	DateTo    string             `mapstructure:"date_to"`
	Columns   data.ColumnMapping `mapstructure:"columns"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigin   string        `mapstructure:"cors_origin"`
	RateLimit    float64       `mapstructure:"rate_limit"`
	RateBurst    int           `mapstructure:"rate_burst"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ReportingConfig holds report output settings
type ReportingConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Load reads configuration from path (optional), environment variables and
// defaults, then validates it
func Load(path string) (*Config, error) {
	v := newViper(true)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, simerrors.WrapError(err, simerrors.ErrorCategoryConfiguration, "config", "read").
				WithContext("path", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, simerrors.WrapError(err, simerrors.ErrorCategoryConfiguration, "config", "unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration, ignoring files and environment
func Default() *Config {
	var cfg Config
	if err := newViper(false).Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

func newViper(env bool) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	if env {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	return v
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Simulation defaults
	v.SetDefault("simulation.iterations", DefaultIterations)
	v.SetDefault("simulation.max_iterations", DefaultMaxIterations)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.initial_portfolio", DefaultInitialPortfolio)
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.time_budget", "30s")
	v.SetDefault("simulation.inflation_rule", "compound-monthly")

	// Data defaults
	v.SetDefault("data.file", "")
	v.SetDefault("data.root", DefaultDataRoot)
	v.SetDefault("data.format", "")
	v.SetDefault("data.min_months", data.DefaultMinMonths)
	v.SetDefault("data.date_from", "")
	v.SetDefault("data.date_to", "")
	v.SetDefault("data.columns.date", data.DefaultColumnMapping.Date)
	v.SetDefault("data.columns.stock_return", data.DefaultColumnMapping.StockReturn)
	v.SetDefault("data.columns.bond_return", data.DefaultColumnMapping.BondReturn)
	v.SetDefault("data.columns.monthly_inflation", data.DefaultColumnMapping.MonthlyInflation)
	v.SetDefault("data.columns.annual_inflation", data.DefaultColumnMapping.AnnualInflation)
	v.SetDefault("data.columns.percent_values", data.DefaultColumnMapping.PercentValues)

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.rate_limit", 5.0)
	v.SetDefault("server.rate_burst", 10)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")

	// Reporting defaults
	v.SetDefault("reporting.output_dir", DefaultOutputDir)
}

// SeriesOptions converts the data section into loader options
func (c *Config) SeriesOptions() (data.SeriesOptions, error) {
	from, errFrom := data.ParseMonth(c.Data.DateFrom)
	to, errTo := data.ParseMonth(c.Data.DateTo)
	if err := errors.Join(errFrom, errTo); err != nil {
		return data.SeriesOptions{}, simerrors.WrapError(err, simerrors.ErrorCategoryConfiguration, "config", "series_options")
	}
	return data.SeriesOptions{MinMonths: c.Data.MinMonths, From: from, To: to}, nil
}

// DataManager builds a data manager honouring the column mapping and format
func (c *Config) DataManager() (*data.DataManager, error) {
	dm := data.NewDataManagerWithMapping(c.Data.Columns)
	if err := dm.SetFormat(c.Data.Format); err != nil {
		return nil, err
	}
	return dm, nil
}

// DatasetPath returns Data.File, or the first known dataset under Data.Root
func (c *Config) DatasetPath(dm *data.DataManager) string {
	if c.Data.File != "" {
		return c.Data.File
	}
	return dm.FindDataFile(c.Data.Root)
}
