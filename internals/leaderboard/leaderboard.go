package leaderboard

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/market"
	"github.com/Thepathakarpit/stocksfafo-sub001/internals/portfolio"
	"github.com/Thepathakarpit/stocksfafo-sub001/internals/users"
)

type Entry struct {
	Rank       int             `json:"rank"`
	Name       string          `json:"name"`
	TotalValue decimal.Decimal `json:"totalValue"`
	TotalPnL   decimal.Decimal `json:"totalPnL"`
}

type Leaderboard struct {
	Quotes *market.Store
	Users  users.Store
}

func New(quotes *market.Store, store users.Store) *Leaderboard {
	return &Leaderboard{
		Quotes: quotes,
		Users:  store,
	}
}

// GetLeaderboard values every portfolio at live prices and ranks users
// by total value, best first.
func (l *Leaderboard) GetLeaderboard(ctx context.Context) ([]Entry, error) {
	all, err := l.Users.All(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(all))
	for _, u := range all {
		p := u.Portfolio
		portfolio.Refresh(&p, l.Quotes)
		summary := portfolio.Valuate(&p)
		entries = append(entries, Entry{
			Name:       u.Name,
			TotalValue: summary.TotalValue,
			TotalPnL:   summary.TotalPnL,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TotalValue.GreaterThan(entries[j].TotalValue)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}
