package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nadirh/retirement-planning/cmd/common"
	"github.com/Nadirh/retirement-planning/pkg/orchestrator"
	"github.com/Nadirh/retirement-planning/pkg/reporting"
)

func newSimulateCommand(a *app) *cobra.Command {
	var (
		flags requestFlags
		stock float64
		bond  float64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate one stock/bond allocation",
		Long: `Simulate runs the Monte Carlo model for a single allocation and prints its
success rate, final portfolio percentiles and failure timing.

Example:
  retirement-sim simulate --stock 60 --years 30 --withdrawal 4 --inflation 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := common.NewFlagValidator()
			flags.check(cmd, a.cfg.Simulation.MaxIterations, v)
			req := orchestrator.Request{}
			if cmd.Flags().Changed("stock") {
				v.ValidateFloat("stock", stock, 0, 100)
				req.StockAllocation = &stock
			}
			if cmd.Flags().Changed("bond") {
				v.ValidateFloat("bond", bond, 0, 100)
				req.BondAllocation = &bond
			}
			if err := v.Err(); err != nil {
				return err
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

			result, err := o.RunSingle(ctx, plan)
			if err != nil {
				return err
			}

			if flags.jsonOut {
				if err := reporting.PrintJSON(a.out, orchestrator.NewSingleResponse(result)); err != nil {
					return err
				}
			} else {
				reporting.NewDefaultConsoleReporter().PrintSimulation(a.out, result)
			}

			path, err := a.writeReport(reporting.FromSimulation(result, sweepParameters(plan)), flags.output)
			if err != nil {
				return err
			}
			if path != "" && !flags.jsonOut {
				fmt.Fprintf(a.out, "\n📁 Report written to %s\n", path)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64VarP(&stock, "stock", "s", orchestrator.DefaultStockAllocation, "stock allocation in percent")
	cmd.Flags().Float64VarP(&bond, "bond", "b", 0, "bond allocation in percent; must equal 100 - stock when given")
	return cmd
}
