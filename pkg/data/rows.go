package data

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

// columnIndex resolves the mapping against a header row
type columnIndex struct {
	date, stock, bond, monthlyInflation, annualInflation int
	width                                                int
}

func resolveColumns(header []string, mapping ColumnMapping, source string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		// Excel exports sometimes carry a BOM on the first header cell
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		positions[strings.ToLower(name)] = i
	}

	idx := columnIndex{}
	missing := []string{}
	lookup := func(name string) int {
		pos, ok := positions[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		if pos+1 > idx.width {
			idx.width = pos + 1
		}
		return pos
	}

	idx.date = lookup(mapping.Date)
	idx.stock = lookup(mapping.StockReturn)
	idx.bond = lookup(mapping.BondReturn)
	idx.monthlyInflation = lookup(mapping.MonthlyInflation)
	idx.annualInflation = lookup(mapping.AnnualInflation)

	if len(missing) > 0 {
		return idx, simerrors.NewDataError("data", "resolve_columns",
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))).
			WithContext("source", source)
	}
	return idx, nil
}

// parseRecord converts one data row. line is the 1-based line (or row) number
// used in error messages.
func parseRecord(record []string, idx columnIndex, mapping ColumnMapping, source string, line int) (types.MonthlyObservation, error) {
	rowErr := func(format string, args ...interface{}) error {
		return simerrors.NewDataError("data", "parse_row", fmt.Sprintf(format, args...)).
			WithContext("source", source).
			WithContext("line", line)
	}

	if len(record) < idx.width {
		return types.MonthlyObservation{}, rowErr("expected at least %d columns, got %d", idx.width, len(record))
	}

	date, err := parseDate(record[idx.date])
	if err != nil {
		return types.MonthlyObservation{}, rowErr("invalid date %q", record[idx.date])
	}

	values := [4]float64{}
	cols := [4]struct {
		name string
		pos  int
	}{
		{mapping.StockReturn, idx.stock},
		{mapping.BondReturn, idx.bond},
		{mapping.MonthlyInflation, idx.monthlyInflation},
		{mapping.AnnualInflation, idx.annualInflation},
	}
	for i, col := range cols {
		raw := strings.TrimSpace(record[col.pos])
		if raw == "" {
			return types.MonthlyObservation{}, rowErr("missing value for %s", col.name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return types.MonthlyObservation{}, rowErr("invalid number %q for %s", raw, col.name)
		}
		if mapping.PercentValues {
			v /= 100
		}
		values[i] = v
	}

	return types.MonthlyObservation{
		Date:             date,
		StockReturn:      values[0],
		BondReturn:       values[1],
		MonthlyInflation: values[2],
		AnnualInflation:  values[3],
	}, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range DateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
