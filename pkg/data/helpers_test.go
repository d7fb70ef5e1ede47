package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

const csvHeader = "Date,SP500_Total_Return,Treasury_5Y_Total_Return,Inflation_Monthly,Inflation_Annual"

// csvRows renders n monthly rows starting January 1990 in percent units
func csvRows(n int, stock, bond, monthlyInfl, annualInfl float64) []string {
	rows := make([]string, 0, n)
	start := time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		d := start.AddDate(0, i, 0)
		rows = append(rows, fmt.Sprintf("%s,%.4f,%.4f,%.4f,%.4f", d.Format("2006-01-02"), stock, bond, monthlyInfl, annualInfl))
	}
	return rows
}

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "monthly_returns.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func observations(n int) []types.MonthlyObservation {
	out := make([]types.MonthlyObservation, n)
	start := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = types.MonthlyObservation{
			Date:             start.AddDate(0, i, 0),
			StockReturn:      0.01 * float64(i%5-2),
			BondReturn:       0.003,
			MonthlyInflation: 0.002,
			AnnualInflation:  0.025,
		}
	}
	return out
}
