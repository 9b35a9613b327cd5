package portfolio

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/market"
	"github.com/Thepathakarpit/stocksfafo-sub001/internals/users"
)

type PortfolioService struct {
	Quotes *market.Store
	Users  users.Store
}

func New(quotes *market.Store, store users.Store) *PortfolioService {
	return &PortfolioService{
		Quotes: quotes,
		Users:  store,
	}
}

// Get returns the user's portfolio with every holding priced at the
// live quote, plus the valuation summary. The refresh lands on the
// returned copy only; the stored blob keeps the prices written by the
// last trade.
func (ps *PortfolioService) Get(ctx context.Context, userID string) (*users.Portfolio, Summary, error) {
	u, err := ps.Users.Get(ctx, userID)
	if err != nil {
		return nil, Summary{}, err
	}

	p := u.Portfolio
	Refresh(&p, ps.Quotes)
	return &p, Valuate(&p), nil
}

// Refresh overlays live quote prices onto the holdings. A symbol the
// quote store no longer knows keeps its last stored price.
func Refresh(p *users.Portfolio, quotes *market.Store) {
	for i := range p.Holdings {
		if q, err := quotes.Get(p.Holdings[i].Symbol); err == nil {
			p.Holdings[i].CurrentPrice = q.Price
		}
	}
}

// Valuate sums the holdings at their current prices. PnL is measured
// against the fixed seed balance every account starts with.
func Valuate(p *users.Portfolio) Summary {
	stockValue := decimal.Zero
	for _, h := range p.Holdings {
		stockValue = stockValue.Add(h.CurrentPrice.Mul(decimal.NewFromInt(h.Quantity)))
	}
	totalValue := p.Cash.Add(stockValue)
	return Summary{
		StockValue: stockValue,
		TotalValue: totalValue,
		TotalPnL:   totalValue.Sub(users.SeedCash),
	}
}
