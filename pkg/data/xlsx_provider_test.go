package data

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	simerrors "github.com/Nadirh/retirement-planning/internal/errors"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	fx := excelize.NewFile()
	defer fx.Close()

	sheet := fx.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, fx.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "monthly_returns.xlsx")
	require.NoError(t, fx.SaveAs(path))
	return path
}

func TestXLSXProvider_LoadData(t *testing.T) {
	rows := [][]interface{}{
		{"Date", "SP500_Total_Return", "Treasury_5Y_Total_Return", "Inflation_Monthly", "Inflation_Annual"},
	}
	start := time.Date(1995, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 26; i++ {
		rows = append(rows, []interface{}{start.AddDate(0, i, 0).Format("2006-01-02"), "1.5", "0.4", "0.2", "2.6"})
	}
	path := writeWorkbook(t, rows)

	data, err := NewXLSXProvider().LoadData(path)
	require.NoError(t, err)
	require.Len(t, data, 26)
	assert.InDelta(t, 0.015, data[0].StockReturn, 1e-12)
	assert.InDelta(t, 0.026, data[25].AnnualInflation, 1e-12)

	series, err := NewDataManager().LoadSeries(path, SeriesOptions{})
	require.NoError(t, err)
	assert.Equal(t, 26, series.Len())
}

func TestXLSXProvider_RejectsBadCell(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Date", "SP500_Total_Return", "Treasury_5Y_Total_Return", "Inflation_Monthly", "Inflation_Annual"},
		{"1995-03-01", "1.5", "0.4", "0.2", "2.6"},
		{"1995-04-01", "1.5", "0.4", "0.2"},
	})

	_, err := NewXLSXProvider().LoadData(path)
	require.Error(t, err)
	assert.True(t, simerrors.IsData(err))
	assert.Contains(t, err.Error(), "missing value for Inflation_Annual")
	assert.Contains(t, err.Error(), "line=3")
}

func TestXLSXProvider_EmptyRows(t *testing.T) {
	header := []interface{}{"Date", "SP500_Total_Return", "Treasury_5Y_Total_Return", "Inflation_Monthly", "Inflation_Annual"}
	blank := []interface{}{"", "", "", "", ""}
	month := func(i int) []interface{} {
		d := time.Date(1995, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
		return []interface{}{d.Format("2006-01-02"), "1.5", "0.4", "0.2", "2.6"}
	}

	t.Run("inside the data", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{header, month(0), blank, month(1)})

		_, err := NewXLSXProvider().LoadData(path)
		require.Error(t, err)
		assert.True(t, simerrors.IsData(err))
		assert.Contains(t, err.Error(), "empty row")
		assert.Contains(t, err.Error(), "line=3")
	})

	t.Run("trailing", func(t *testing.T) {
		rows := [][]interface{}{header}
		for i := 0; i < 3; i++ {
			rows = append(rows, month(i))
		}
		rows = append(rows, blank, blank)
		path := writeWorkbook(t, rows)

		data, err := NewXLSXProvider().LoadData(path)
		require.NoError(t, err)
		assert.Len(t, data, 3)
	})
}
