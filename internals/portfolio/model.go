package portfolio

import "github.com/shopspring/decimal"

// Summary is the valuation block served next to the portfolio.
type Summary struct {
	StockValue decimal.Decimal `json:"stockValue"`
	TotalValue decimal.Decimal `json:"totalValue"`
	TotalPnL   decimal.Decimal `json:"totalPnL"`
}
