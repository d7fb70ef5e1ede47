package types

import "time"

// MonthlyObservation is one historical month of market data. All values are
// decimal fractions (0.01 == 1%).
type MonthlyObservation struct {
	Date             time.Time `json:"date"`
	StockReturn      float64   `json:"stock_return"`
	BondReturn       float64   `json:"bond_return"`
	MonthlyInflation float64   `json:"monthly_inflation"`
	AnnualInflation  float64   `json:"annual_inflation"`
}

// SeriesSummary describes a loaded return series
type SeriesSummary struct {
	Months              int       `json:"months"`
	From                time.Time `json:"from"`
	To                  time.Time `json:"to"`
	AnnualizedStock     float64   `json:"annualized_stock_return"`
	AnnualizedBond      float64   `json:"annualized_bond_return"`
	MeanAnnualInflation float64   `json:"mean_annual_inflation"`
	WorstStockMonth     float64   `json:"worst_stock_month"`
	WorstBondMonth      float64   `json:"worst_bond_month"`
}
