package market

import (
	"github.com/shopspring/decimal"
)

// Quote is the current tradable price for one symbol. It is mutated in
// place on every simulator tick; no history is kept.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
}

// DefaultQuotes is the fixed demo listing. Order here is the order the
// stocks API reports.
func DefaultQuotes() []Quote {
	return []Quote{
		{Symbol: "RELIANCE", Name: "Reliance Industries", Price: decimal.RequireFromString("2850.75")},
		{Symbol: "TCS", Name: "Tata Consultancy Services", Price: decimal.RequireFromString("4125.30")},
		{Symbol: "HDFCBANK", Name: "HDFC Bank", Price: decimal.RequireFromString("1680.50")},
		{Symbol: "INFY", Name: "Infosys", Price: decimal.RequireFromString("1890.25")},
		{Symbol: "ICICIBANK", Name: "ICICI Bank", Price: decimal.RequireFromString("1245.60")},
		{Symbol: "HINDUNILVR", Name: "Hindustan Unilever", Price: decimal.RequireFromString("2456.80")},
		{Symbol: "ITC", Name: "ITC Limited", Price: decimal.RequireFromString("485.20")},
		{Symbol: "SBIN", Name: "State Bank of India", Price: decimal.RequireFromString("845.45")},
		{Symbol: "BHARTIARTL", Name: "Bharti Airtel", Price: decimal.RequireFromString("1580.90")},
		{Symbol: "KOTAKBANK", Name: "Kotak Mahindra Bank", Price: decimal.RequireFromString("1775.35")},
	}
}
