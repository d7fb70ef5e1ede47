package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

// CSVProvider implements DataProvider for CSV files
type CSVProvider struct {
	mapping ColumnMapping
}

// NewCSVProvider creates a new CSV data provider with the default columns
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{
		mapping: DefaultColumnMapping,
	}
}

// NewCSVProviderWithMapping creates a new CSV data provider with custom columns
func NewCSVProviderWithMapping(mapping ColumnMapping) *CSVProvider {
	return &CSVProvider{
		mapping: mapping,
	}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads historical data from a CSV file
func (p *CSVProvider) LoadData(source string) ([]types.MonthlyObservation, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, simerrors.WrapDataError(err, "data", "open").WithContext("source", source)
	}
	defer file.Close()

	return p.Read(file, source)
}

// Read parses CSV content from r. name is only used in error messages.
func (p *CSVProvider) Read(r io.Reader, name string) ([]types.MonthlyObservation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, simerrors.NewDataError("data", "read_header", "dataset is empty").WithContext("source", name)
		}
		return nil, simerrors.WrapDataError(err, "data", "read_header").WithContext("source", name)
	}

	idx, err := resolveColumns(header, p.mapping, name)
	if err != nil {
		return nil, err
	}

	var data []types.MonthlyObservation
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, simerrors.WrapDataError(fmt.Errorf("error reading CSV: %w", err), "data", "read_row").
				WithContext("source", name)
		}
		// physical line, so skipped blank lines do not shift error positions
		line, _ := reader.FieldPos(0)

		obs, err := parseRecord(record, idx, p.mapping, name, line)
		if err != nil {
			return nil, err
		}
		data = append(data, obs)
	}

	if len(data) == 0 {
		return nil, simerrors.NewDataError("data", "read_rows", "dataset has no rows").WithContext("source", name)
	}
	return data, nil
}
