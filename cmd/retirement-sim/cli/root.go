// Package cli implements the retirement-sim command tree
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Nadirh/retirement-planning/cmd/common"
	"github.com/Nadirh/retirement-planning/internal/logger"
	"github.com/Nadirh/retirement-planning/pkg/config"
	"github.com/Nadirh/retirement-planning/pkg/orchestrator"
)

const appName = "retirement-sim"

// app carries the state shared by every subcommand once the persistent
// flags have been applied
type app struct {
	configPath string
	envPath    string
	dataPath   string
	logLevel   string
	logFile    string

	cfg *config.Config
	log *logger.Logger
	out io.Writer
}

// NewRootCommand builds the retirement-sim command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   appName,
		Short: "Monte Carlo retirement portfolio simulator",
		Long: `retirement-sim bootstraps monthly stock, bond and inflation history to
estimate how often a retirement portfolio survives a withdrawal plan.

It can:
  - sweep stock/bond allocations and pick the most robust one
  - simulate a single allocation in detail
  - serve the simulator over HTTP
  - validate a historical returns dataset`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Close()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (yaml, json or toml)")
	pf.StringVar(&a.envPath, "env", ".env", "environment file loaded before the config")
	pf.StringVar(&a.dataPath, "data", "", "historical returns dataset (csv or xlsx), overrides data.file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFile, "log-file", "", "also append logs to this file")

	root.AddCommand(
		newSweepCommand(a),
		newSimulateCommand(a),
		newServeCommand(a),
		newValidateDataCommand(a),
		newVersionCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.out = cmd.OutOrStdout()
	if cmd.Name() == "version" {
		return nil
	}

	v := common.NewFlagValidator()
	v.ValidateFile("config", a.configPath, false)
	v.ValidateFile("data", a.dataPath, false)
	if a.logLevel != "" {
		v.ValidateChoice("log-level", a.logLevel, []string{"debug", "info", "warn", "warning", "error"})
	}
	if err := v.Err(); err != nil {
		return err
	}

	if err := common.NewEnvLoader(logger.Default()).LoadEnvFile(a.envPath); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataPath != "" {
		cfg.Data.File = a.dataPath
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFile != "" {
		cfg.Logging.File = a.logFile
	}
	a.cfg = cfg

	log, err := common.SetupLogger(cfg.Logging)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

// orchestrator builds an orchestrator over the configured dataset
func (a *app) orchestrator() (*orchestrator.DefaultOrchestrator, *orchestrator.DatasetLoader, error) {
	loader, err := orchestrator.NewDatasetLoaderFromConfig(a.cfg)
	if err != nil {
		return nil, nil, err
	}
	return orchestrator.NewOrchestrator(loader, orchestrator.OptionsFromConfig(a.cfg, a.log)), loader, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
