package data

import (
	"strings"

	"github.com/xuri/excelize/v2"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

// XLSXProvider implements DataProvider for Excel workbooks. It reads the named
// sheet, or the first sheet when Sheet is empty, with the same header rules as
// the CSV provider.
type XLSXProvider struct {
	mapping ColumnMapping
	Sheet   string
}

// NewXLSXProvider creates a new Excel data provider with the default columns
func NewXLSXProvider() *XLSXProvider {
	return &XLSXProvider{mapping: DefaultColumnMapping}
}

// NewXLSXProviderWithMapping creates a new Excel data provider with custom columns
func NewXLSXProviderWithMapping(mapping ColumnMapping) *XLSXProvider {
	return &XLSXProvider{mapping: mapping}
}

// GetName returns the name of the data provider
func (p *XLSXProvider) GetName() string {
	return "XLSX Provider"
}

// LoadData loads historical data from a workbook
func (p *XLSXProvider) LoadData(source string) ([]types.MonthlyObservation, error) {
	fx, err := excelize.OpenFile(source)
	if err != nil {
		return nil, simerrors.WrapDataError(err, "data", "open").WithContext("source", source)
	}
	defer fx.Close()

	sheet := p.Sheet
	if sheet == "" {
		sheet = fx.GetSheetName(0)
	}

	rows, err := fx.GetRows(sheet)
	if err != nil {
		return nil, simerrors.WrapDataError(err, "data", "read_sheet").
			WithContext("source", source).
			WithContext("sheet", sheet)
	}
	if len(rows) == 0 {
		return nil, simerrors.NewDataError("data", "read_header", "dataset is empty").WithContext("source", source)
	}

	idx, err := resolveColumns(rows[0], p.mapping, source)
	if err != nil {
		return nil, err
	}

	// GetRows can report formatted but empty rows after the data; only those
	// trailing rows are ignored
	body := rows[1:]
	for len(body) > 0 && isBlank(body[len(body)-1]) {
		body = body[:len(body)-1]
	}

	var data []types.MonthlyObservation
	for i, row := range body {
		line := i + 2
		if isBlank(row) {
			return nil, simerrors.NewDataError("data", "parse_row", "empty row inside the data").
				WithContext("source", source).
				WithContext("line", line)
		}
		// GetRows drops trailing empty cells, so pad before parsing
		for len(row) < idx.width {
			row = append(row, "")
		}
		obs, err := parseRecord(row, idx, p.mapping, source, line)
		if err != nil {
			return nil, err
		}
		data = append(data, obs)
	}

	if len(data) == 0 {
		return nil, simerrors.NewDataError("data", "read_rows", "dataset has no rows").WithContext("source", source)
	}
	return data, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
