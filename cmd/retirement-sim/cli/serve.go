package cli

import (
	"github.com/spf13/cobra"

	"github.com/Nadirh/retirement-planning/internal/api"
	"github.com/Nadirh/retirement-planning/internal/monitoring"
	"github.com/Nadirh/retirement-planning/pkg/data"
	"github.com/Nadirh/retirement-planning/pkg/orchestrator"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulator over HTTP",
		Long: `Serve exposes POST /api/monte-carlo, GET /healthz and GET /metrics.

The dataset is loaded at startup. When the file exists but cannot be loaded
the server still starts, /healthz reports the problem and simulation requests
fail with a DATA error. Each request retries the load, so fixing the file
recovers both without a restart. When no dataset file is found at all, a
restart is needed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}

			health := monitoring.NewHealthChecker()
			series := a.serveDataset(health)

			o := orchestrator.NewOrchestrator(series, orchestrator.OptionsFromConfig(a.cfg, a.log))
			server := api.NewServer(o, health, a.cfg.Server, a.log)

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return server.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

// serveDataset returns the dataset provider for the server and keeps health
// in step with it, including a load that only succeeds on a later request
func (a *app) serveDataset(health *monitoring.HealthChecker) orchestrator.SeriesProvider {
	loader, err := orchestrator.NewDatasetLoaderFromConfig(a.cfg)
	if err != nil {
		a.log.Warn("Dataset unavailable: %v", err)
		health.RecordDatasetError(err)
		return orchestrator.NewUnavailableSeries(err)
	}

	loader.OnLoad(func(source string, s *data.Series) {
		summary := s.Summary()
		health.SetDataset(source, summary)
		a.log.Info("Loaded %d months from %s", summary.Months, source)
	})
	if _, err := loader.Series(); err != nil {
		a.log.Warn("Failed to load dataset %s: %v", loader.Path(), err)
		health.RecordDatasetError(err)
	}
	return loader
}
