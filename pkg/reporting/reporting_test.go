package reporting

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

func float(v float64) *float64 { return &v }

func sampleReport() *types.SweepReport {
	allocations := []types.AllocationResult{
		{StockPercent: 0, BondPercent: 100, SuccessRate: 0.62, SuccessCount: 62, FailureCount: 38,
			AvgFinalPortfolioAmongSuccesses: float(410000), MedianYearsToFailureAmongFailures: float(22.5), MeanYearsToFailure: float(21.9),
			FinalPortfolioP10: float(90000), FinalPortfolioP50: float(380000), FinalPortfolioP90: float(820000)},
		{StockPercent: 50, BondPercent: 50, SuccessRate: 0.91, SuccessCount: 91, FailureCount: 9,
			AvgFinalPortfolioAmongSuccesses: float(1250000), MedianYearsToFailureAmongFailures: float(26.1), MeanYearsToFailure: float(25.4),
			FinalPortfolioP10: float(300000), FinalPortfolioP50: float(1100000), FinalPortfolioP90: float(2600000)},
		{StockPercent: 100, BondPercent: 0, SuccessRate: 1, SuccessCount: 100,
			AvgFinalPortfolioAmongSuccesses: float(3400000), FinalPortfolioP10: float(800000),
			FinalPortfolioP50: float(2900000), FinalPortfolioP90: float(7000000)},
	}
	best := allocations[2]
	return &types.SweepReport{
		ID:                        "01HZX3J5Q8W0000000000000AB",
		Status:                    types.SweepStatusComplete,
		Allocations:               allocations,
		Best:                      &best,
		TotalCombinations:         3,
		SimulationsPerCombination: 100,
		TotalSimulations:          300,
		Seed:                      42,
		InitialPortfolio:          1_000_000,
		InflationSource:           types.InflationSourceBootstrap,
		Parameters: types.SweepParameters{
			HorizonYears:   30,
			WithdrawalRate: 0.04,
			InflationRule:  "compound-monthly",
			Grid:           []int{0, 50, 100},
		},
		Duration:    1500 * time.Millisecond,
		GeneratedAt: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriterFor(t *testing.T) {
	tests := []struct {
		path    string
		want    interface{}
		wantErr bool
	}{
		{"out/report.json", &DefaultJSONReporter{}, false},
		{"out/report.YAML", &DefaultYAMLReporter{}, false},
		{"out/report.yml", &DefaultYAMLReporter{}, false},
		{"out/report.csv", &DefaultCSVReporter{}, false},
		{"out/report.xlsx", &DefaultExcelReporter{}, false},
		{"out/report.txt", nil, true},
		{"out/report", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w, err := WriterFor(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, w)
		})
	}
}

func TestWriteReport_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")
	require.NoError(t, WriteReport(sampleReport(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded types.SweepReport
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, uint64(42), decoded.Seed)
	require.Len(t, decoded.Allocations, 3)
	require.NotNil(t, decoded.Best)
	assert.Equal(t, 100, decoded.Best.StockPercent)
}

func TestWriteReport_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, WriteReport(sampleReport(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "stock_percent: 50")
	assert.Contains(t, string(raw), "inflation_source: bootstrap")

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(raw, &decoded))
	assert.Equal(t, 300, decoded["total_simulations"])
}

func TestWriteReport_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, WriteReport(sampleReport(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, csvHeaders, rows[0])
	assert.Equal(t, []string{"50", "50", "91.0", "91", "9", "1250000", "300000", "1100000", "2600000", "26.1", "25.4", ""}, rows[2])

	all := rows[3]
	assert.Equal(t, "100", all[0])
	assert.Equal(t, "", all[9], "no failures leaves the failure columns empty")
	assert.Equal(t, "*", all[11])

	assert.Contains(t, rows[4][len(csvHeaders)-1], "seed=42")
}

func TestWriteReport_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteReport(sampleReport(), path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	assert.Equal(t, []string{allocationsSheet, summarySheet}, fx.GetSheetList())

	header, err := fx.GetCellValue(allocationsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Stock %", header)

	stock, err := fx.GetCellValue(allocationsSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "100", stock)

	rows, err := fx.GetRows(summarySheet)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"Report ID", "01HZX3J5Q8W0000000000000AB"}, rows[0])
}

func TestFromSimulation(t *testing.T) {
	result := &types.SimulationResult{
		ID: "single",
		Allocation: types.AllocationResult{
			StockPercent: 60, BondPercent: 40, SuccessRate: 0.75, SuccessCount: 75, FailureCount: 25,
		},
		Seed:             9,
		InitialPortfolio: 1_000_000,
		InflationSource:  types.InflationSourceFixed,
		Duration:         time.Second,
	}

	report := FromSimulation(result, types.SweepParameters{HorizonYears: 30, WithdrawalRate: 0.04})
	assert.True(t, report.Complete())
	assert.Equal(t, 100, report.TotalSimulations)
	assert.Equal(t, []int{60}, report.Parameters.Grid)
	require.NotNil(t, report.Best)
	assert.Equal(t, 60, report.Best.StockPercent)
}

func TestConsoleReporter(t *testing.T) {
	r := NewDefaultConsoleReporter()

	t.Run("sweep", func(t *testing.T) {
		var buf bytes.Buffer
		r.PrintSweep(&buf, sampleReport())
		out := buf.String()
		assert.Contains(t, out, "ALLOCATION SWEEP: 30 years, 4.00% withdrawal")
		assert.Contains(t, out, "91.0%")
		assert.Contains(t, out, "$1,250,000")
		assert.Contains(t, out, "★")
		assert.Contains(t, out, "3 x 100 = 300")
	})

	t.Run("simulation", func(t *testing.T) {
		var buf bytes.Buffer
		r.PrintSimulation(&buf, &types.SimulationResult{
			ID:         "sim",
			Allocation: types.AllocationResult{StockPercent: 70, BondPercent: 30, SuccessRate: 0.5, SuccessCount: 5, FailureCount: 5},
		})
		assert.Contains(t, buf.String(), "SIMULATION 70/30")
		assert.Contains(t, buf.String(), "50.0% (5/10)")
	})

	t.Run("dataset", func(t *testing.T) {
		var buf bytes.Buffer
		r.PrintSeriesSummary(&buf, "data/returns.csv", types.SeriesSummary{
			Months: 120,
			From:   time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
			To:     time.Date(2009, time.December, 1, 0, 0, 0, 0, time.UTC),
		})
		assert.Contains(t, buf.String(), "2000-01 to 2009-12")
		assert.Contains(t, buf.String(), "120")
	})
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("results", "sweep_abc.json"), DefaultOutputPath("", "abc", ""))
	assert.Equal(t, filepath.Join("out", "sweep_abc.xlsx"), DefaultOutputPath("out", "abc", ".XLSX"))
	assert.Equal(t, filepath.Join("out", "sweep_unknown.csv"), DefaultOutputPath("out", " ", "csv"))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}
