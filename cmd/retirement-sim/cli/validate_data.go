package cli

import (
	"github.com/spf13/cobra"

	"github.com/Nadirh/retirement-planning/pkg/orchestrator"
	"github.com/Nadirh/retirement-planning/pkg/reporting"
)

func newValidateDataCommand(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "validate-data",
		Short: "Load and validate the historical returns dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := orchestrator.NewDatasetLoaderFromConfig(a.cfg)
			if err != nil {
				return err
			}
			series, err := loader.Series()
			if err != nil {
				return err
			}

			summary := series.Summary()
			if jsonOut {
				return reporting.PrintJSON(a.out, summary)
			}
			reporting.NewDefaultConsoleReporter().PrintSeriesSummary(a.out, loader.Path(), summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the summary as JSON")
	return cmd
}
