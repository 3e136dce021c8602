package model

import "github.com/shopspring/decimal"

// SalesData is one day of sales for a product in a single currency.
// At most one row exists per (product, date, currency).
type SalesData struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	Date       Date            `json:"date"`
	UnitsSold  int             `json:"units_sold"`
	Revenue    decimal.Decimal `json:"revenue"`
	CurrencyID int64           `json:"currency_id"`
}
