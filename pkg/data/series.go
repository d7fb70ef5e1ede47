package data

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

// DefaultMinMonths is the shortest history accepted for bootstrap sampling
const DefaultMinMonths = 24

// SeriesOptions controls how a series is validated and trimmed
type SeriesOptions struct {
	// MinMonths rejects shorter datasets; zero means DefaultMinMonths
	MinMonths int
	// From and To restrict the series to an inclusive date range when set
	From time.Time
	To   time.Time
}

// Series is an immutable, validated monthly return history. It is safe for
// concurrent use by any number of samplers.
type Series struct {
	observations []types.MonthlyObservation
}

// NewSeries validates obs and returns a series holding its own copy. Any
// invalid row rejects the whole dataset.
func NewSeries(obs []types.MonthlyObservation, opts SeriesOptions) (*Series, error) {
	minMonths := opts.MinMonths
	if minMonths <= 0 {
		minMonths = DefaultMinMonths
	}

	if len(obs) == 0 {
		return nil, simerrors.NewDataError("data", "validate", "dataset is empty")
	}

	if err := ValidateObservations(obs); err != nil {
		return nil, err
	}

	filtered := obs
	if !opts.From.IsZero() || !opts.To.IsZero() {
		filtered = FilterByDateRange(obs, opts.From, opts.To)
	}

	if len(filtered) < minMonths {
		return nil, simerrors.NewDataError("data", "validate",
			fmt.Sprintf("dataset has %d months, at least %d are required for bootstrap sampling", len(filtered), minMonths)).
			WithContext("months", len(filtered)).
			WithContext("min_months", minMonths)
	}

	owned := make([]types.MonthlyObservation, len(filtered))
	copy(owned, filtered)
	return &Series{observations: owned}, nil
}

// ValidateObservations checks every row: returns and inflation strictly above
// -100%, finite values, dates present and strictly increasing.
func ValidateObservations(obs []types.MonthlyObservation) error {
	for i, o := range obs {
		bad := func(format string, args ...interface{}) error {
			return simerrors.NewDataError("data", "validate", fmt.Sprintf(format, args...)).
				WithContext("index", i).
				WithContext("date", o.Date.Format("2006-01"))
		}

		if o.Date.IsZero() {
			return bad("missing date")
		}
		fields := []struct {
			name  string
			value float64
		}{
			{"stock return", o.StockReturn},
			{"bond return", o.BondReturn},
			{"monthly inflation", o.MonthlyInflation},
			{"annual inflation", o.AnnualInflation},
		}
		for _, f := range fields {
			if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
				return bad("%s is not a finite number", f.name)
			}
			if f.value <= -1 {
				return bad("%s %.4f is at or below the -100%% floor", f.name, f.value)
			}
		}
		if i > 0 && !o.Date.After(obs[i-1].Date) {
			return bad("dates must be strictly increasing, %s follows %s",
				o.Date.Format("2006-01-02"), obs[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Len returns the number of months in the series
func (s *Series) Len() int {
	return len(s.observations)
}

// At returns the i-th observation
func (s *Series) At(i int) types.MonthlyObservation {
	return s.observations[i]
}

// Observations returns a copy of the underlying rows
func (s *Series) Observations() []types.MonthlyObservation {
	out := make([]types.MonthlyObservation, len(s.observations))
	copy(out, s.observations)
	return out
}

// SampleUniform draws one whole month uniformly at random, with replacement,
// from r. Stock, bond and inflation always come from the same month.
func (s *Series) SampleUniform(r *rand.Rand) types.MonthlyObservation {
	return s.observations[r.IntN(len(s.observations))]
}

// Summary describes the series
func (s *Series) Summary() types.SeriesSummary {
	n := len(s.observations)
	summary := types.SeriesSummary{
		Months:          n,
		From:            s.observations[0].Date,
		To:              s.observations[n-1].Date,
		WorstStockMonth: math.Inf(1),
		WorstBondMonth:  math.Inf(1),
	}

	var stockLog, bondLog, inflation float64
	for _, o := range s.observations {
		stockLog += math.Log1p(o.StockReturn)
		bondLog += math.Log1p(o.BondReturn)
		inflation += o.AnnualInflation
		summary.WorstStockMonth = math.Min(summary.WorstStockMonth, o.StockReturn)
		summary.WorstBondMonth = math.Min(summary.WorstBondMonth, o.BondReturn)
	}

	// geometric monthly mean, compounded to a year
	summary.AnnualizedStock = math.Expm1(stockLog / float64(n) * 12)
	summary.AnnualizedBond = math.Expm1(bondLog / float64(n) * 12)
	summary.MeanAnnualInflation = inflation / float64(n)
	return summary
}
