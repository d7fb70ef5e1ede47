package cli

import (
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nadirh/retirement-planning/cmd/common"
	"github.com/Nadirh/retirement-planning/internal/simulation"
	"github.com/Nadirh/retirement-planning/pkg/orchestrator"
	"github.com/Nadirh/retirement-planning/pkg/reporting"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

// requestFlags mirror the HTTP request body. Only flags the user set are
// copied into the request so the usual defaults still apply.
type requestFlags struct {
	years         int
	withdrawal    float64
	inflation     float64
	inflationRule string
	simulations   int
	seed          uint64
	output        string
	jsonOut       bool
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.years, "years", "y", orchestrator.DefaultYears, "retirement horizon in years (1-60)")
	fs.Float64VarP(&f.withdrawal, "withdrawal", "w", orchestrator.DefaultWithdrawalRate, "initial withdrawal rate in percent (0.1-20)")
	fs.Float64Var(&f.inflation, "inflation", 0, "fixed annual inflation in percent; omit to bootstrap inflation from history")
	fs.StringVar(&f.inflationRule, "inflation-rule", "", "bootstrap inflation rule: compound-monthly or annual-field")
	fs.IntVarP(&f.simulations, "simulations", "n", 0, "simulations per allocation (default from config)")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed; 0 uses the configured or a random seed")
	fs.StringVarP(&f.output, "output", "o", "", "write the report to a .json, .yaml, .csv or .xlsx file, or give just the format")
	fs.BoolVar(&f.jsonOut, "json", false, "print the JSON response instead of tables")
}

// check range-checks the flags the user set, before any dataset is loaded
func (f *requestFlags) check(cmd *cobra.Command, maxIterations int, v *common.FlagValidator) {
	fs := cmd.Flags()
	if fs.Changed("years") {
		v.ValidateInt("years", f.years, simulation.MinHorizonYears, simulation.MaxHorizonYears)
	}
	if fs.Changed("withdrawal") {
		v.ValidateFloat("withdrawal", f.withdrawal, orchestrator.MinWithdrawalPercent, orchestrator.MaxWithdrawalPercent)
	}
	if fs.Changed("inflation") {
		v.ValidateFloat("inflation", f.inflation, 0, orchestrator.MaxInflationPercent)
	}
	if f.inflationRule != "" {
		v.ValidateChoice("inflation-rule", f.inflationRule, []string{
			string(simulation.InflationRuleCompoundMonthly),
			string(simulation.InflationRuleAnnualField),
		})
	}
	if fs.Changed("simulations") {
		if maxIterations <= 0 {
			maxIterations = math.MaxInt32
		}
		v.ValidateInt("simulations", f.simulations, 1, maxIterations)
	}
}

func (f *requestFlags) apply(cmd *cobra.Command, req *orchestrator.Request) {
	fs := cmd.Flags()
	if fs.Changed("years") {
		years := f.years
		req.Years = &years
	}
	if fs.Changed("withdrawal") {
		rate := f.withdrawal
		req.WithdrawalRate = &rate
	}
	if fs.Changed("inflation") {
		inflation := f.inflation
		req.Inflation = &inflation
	}
	if fs.Changed("simulations") {
		n := f.simulations
		req.SimulationsPerAllocation = &n
	}
	if f.seed != 0 {
		seed := f.seed
		req.Seed = &seed
	}
	req.InflationRule = f.inflationRule
}

// writeReport writes report when --output was given and returns the path
func (a *app) writeReport(report *types.SweepReport, output string) (string, error) {
	if output == "" {
		return "", nil
	}

	path := output
	switch strings.ToLower(output) {
	case reporting.FormatJSON, reporting.FormatYAML, "yml", reporting.FormatCSV, reporting.FormatXLSX:
		path = reporting.DefaultOutputPath(a.cfg.Reporting.OutputDir, report.ID, output)
	}

	if err := reporting.WriteReport(report, path); err != nil {
		return "", err
	}
	a.log.Info("Report written to %s", path)
	return path, nil
}

func sweepParameters(plan orchestrator.Plan) types.SweepParameters {
	return types.SweepParameters{
		HorizonYears:   plan.Params.HorizonYears,
		WithdrawalRate: plan.Params.WithdrawalRate,
		FixedInflation: plan.Params.FixedInflation,
		InflationRule:  string(plan.Params.InflationRule),
		Grid:           append([]int(nil), plan.Grid...),
	}
}
