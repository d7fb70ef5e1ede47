package config

import (
	"fmt"
	"strings"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/internal/simulation"
	"github.com/Nadirh/retirement-planning/pkg/data"
)

// Common configuration constants
const (
	DefaultIterations       = 100
	DefaultMaxIterations    = 10000
	DefaultInitialPortfolio = simulation.DefaultInitialValue
	DefaultDataRoot         = "data"
	DefaultOutputDir        = "results"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate checks every section and reports all problems in one CONFIG error
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	// Simulation
	s := c.Simulation
	if s.Iterations < 1 {
		add("simulation.iterations must be at least 1, got: %d", s.Iterations)
	}
	if s.MaxIterations < s.Iterations {
		add("simulation.max_iterations (%d) must not be below simulation.iterations (%d)", s.MaxIterations, s.Iterations)
	}
	if s.InitialPortfolio <= 0 {
		add("simulation.initial_portfolio must be positive, got: %.2f", s.InitialPortfolio)
	}
	if s.Workers < 0 {
		add("simulation.workers must not be negative, got: %d", s.Workers)
	}
	if s.TimeBudget < 0 {
		add("simulation.time_budget must not be negative, got: %v", s.TimeBudget)
	}
	if _, err := simulation.ParseInflationRule(s.InflationRule); err != nil {
		add("simulation.inflation_rule must be compound-monthly or annual-field, got: %q", s.InflationRule)
	}

	// Data
	d := c.Data
	switch strings.ToLower(d.Format) {
	case "", "csv", "xlsx":
	default:
		add("data.format must be csv or xlsx, got: %q", d.Format)
	}
	if d.MinMonths < 1 {
		add("data.min_months must be at least 1, got: %d", d.MinMonths)
	}
	from, err := data.ParseMonth(d.DateFrom)
	if err != nil {
		add("data.date_from is not a month: %q", d.DateFrom)
	}
	to, err := data.ParseMonth(d.DateTo)
	if err != nil {
		add("data.date_to is not a month: %q", d.DateTo)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		add("data.date_to (%s) is before data.date_from (%s)", d.DateTo, d.DateFrom)
	}
	cols := d.Columns
	for name, value := range map[string]string{
		"date":              cols.Date,
		"stock_return":      cols.StockReturn,
		"bond_return":       cols.BondReturn,
		"monthly_inflation": cols.MonthlyInflation,
		"annual_inflation":  cols.AnnualInflation,
	} {
		if strings.TrimSpace(value) == "" {
			add("data.columns.%s is required", name)
		}
	}

	// Server
	if c.Server.Addr == "" {
		add("server.addr is required")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		add("server read and write timeouts must be positive")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		add("server.rate_limit and server.rate_burst must not be negative")
	}

	// Logging
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		add("logging.level must be one of: debug, info, warn, error")
	}

	if len(problems) == 0 {
		return nil
	}
	return simerrors.NewConfigurationError("config", "validate", strings.Join(problems, "; "))
}

// InflationRule returns the configured rule, defaulting to compound-monthly
func (c *Config) InflationRule() simulation.InflationRule {
	rule, err := simulation.ParseInflationRule(c.Simulation.InflationRule)
	if err != nil {
		return simulation.InflationRuleCompoundMonthly
	}
	return rule
}
