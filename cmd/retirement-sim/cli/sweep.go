package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nadirh/retirement-planning/cmd/common"
	"github.com/Nadirh/retirement-planning/internal/sweep"
	"github.com/Nadirh/retirement-planning/pkg/orchestrator"
	"github.com/Nadirh/retirement-planning/pkg/reporting"
)

func newSweepCommand(a *app) *cobra.Command {
	var (
		flags    requestFlags
		grid     []int
		gridStep int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Simulate every stock/bond split on a grid and pick the best",
		Long: `Sweep runs the same number of simulations for each stock allocation on the
grid (0, 10, ..., 100 by default) and reports the allocation with the highest
success rate.

Example:
  retirement-sim sweep --years 30 --withdrawal 4 --grid-step 5 -o results.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := common.NewFlagValidator()
			flags.check(cmd, a.cfg.Simulation.MaxIterations, v)
			if cmd.Flags().Changed("grid-step") {
				v.ValidateInt("grid-step", gridStep, 1, 100)
			}
			for _, pct := range grid {
				v.ValidateInt("grid", pct, 0, 100)
			}
			if err := v.Err(); err != nil {
				return err
			}

			req := orchestrator.Request{AllocationSweep: true}
			if len(grid) > 0 {
				req.StockAllocationGrid = sweep.NormalizeGrid(grid)
			}
			if cmd.Flags().Changed("grid-step") {
				req.GridStep = gridStep
			}
			flags.apply(cmd, &req)

			o, _, err := a.orchestrator()
			if err != nil {
				return err
			}
			plan, err := o.Plan(req)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			report, runErr := o.RunSweep(ctx, plan)
			if report == nil {
				return runErr
			}

			if flags.jsonOut {
				if err := reporting.PrintJSON(a.out, orchestrator.NewSweepResponse(report)); err != nil {
					return err
				}
			} else {
				reporting.NewDefaultConsoleReporter().PrintSweep(a.out, report)
			}

			path, err := a.writeReport(report, flags.output)
			if err != nil {
				return err
			}
			if path != "" && !flags.jsonOut {
				fmt.Fprintf(a.out, "\n📁 Report written to %s\n", path)
			}
			return runErr
		},
	}

	flags.register(cmd)
	cmd.Flags().IntSliceVar(&grid, "grid", nil, "explicit stock percentages to test in any order, e.g. 80,40,60")
	cmd.Flags().IntVar(&gridStep, "grid-step", 0, "grid spacing in percent; 100 is always included")
	cmd.MarkFlagsMutuallyExclusive("grid", "grid-step")
	return cmd
}
