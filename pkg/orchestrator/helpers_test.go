package orchestrator

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Nadirh/retirement-planning/internal/logger"
	"github.com/Nadirh/retirement-planning/pkg/data"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

// constantSeries repeats one month so every bootstrap draw is identical
func constantSeries(t *testing.T, stock, bond, monthlyInfl float64) *data.Series {
	t.Helper()
	obs := make([]types.MonthlyObservation, 36)
	start := time.Date(1988, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range obs {
		obs[i] = types.MonthlyObservation{
			Date:             start.AddDate(0, i, 0),
			StockReturn:      stock,
			BondReturn:       bond,
			MonthlyInflation: monthlyInfl,
			AnnualInflation:  monthlyInfl * 12,
		}
	}
	series, err := data.NewSeries(obs, data.SeriesOptions{})
	require.NoError(t, err)
	return series
}

func mixedSeries(t *testing.T) *data.Series {
	t.Helper()
	pattern := [][3]float64{
		{0.048, 0.002, 0.003},
		{-0.112, 0.019, 0.001},
		{0.027, -0.005, 0.004},
		{0.015, 0.006, 0.002},
		{-0.043, 0.011, 0.003},
	}
	obs := make([]types.MonthlyObservation, 60)
	start := time.Date(1988, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range obs {
		p := pattern[i%len(pattern)]
		obs[i] = types.MonthlyObservation{
			Date:             start.AddDate(0, i, 0),
			StockReturn:      p[0],
			BondReturn:       p[1],
			MonthlyInflation: p[2],
			AnnualInflation:  p[2] * 12,
		}
	}
	series, err := data.NewSeries(obs, data.SeriesOptions{})
	require.NoError(t, err)
	return series
}

func quietLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LogLevelError)
}

func newTestOrchestrator(series *data.Series) *DefaultOrchestrator {
	return NewOrchestrator(NewStaticSeries(series), Options{
		Iterations:    100,
		MaxIterations: 5000,
		Workers:       4,
		TimeBudget:    10 * time.Second,
		Logger:        quietLogger(),
	})
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func uintPtr(v uint64) *uint64    { return &v }
