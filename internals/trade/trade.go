package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/market"
	"github.com/Thepathakarpit/stocksfafo-sub001/internals/users"
)

var (
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrInvalidType          = errors.New("type must be BUY or SELL")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)

type TradeService struct {
	Quotes *market.Store
	Users  users.Store

	// Now stamps transactions; tests swap in a fixed clock.
	Now func() time.Time
}

func New(quotes *market.Store, store users.Store) *TradeService {
	return &TradeService{
		Quotes: quotes,
		Users:  store,
		Now:    time.Now,
	}
}

// Execute runs one BUY or SELL against the user's portfolio at the live
// quote price and appends the transaction record. The user store
// serializes concurrent trades on the same user and rolls the mutation
// back if persisting fails, so a returned transaction is always durable.
func (ts *TradeService) Execute(ctx context.Context, userID, symbol, side string, quantity int64) (*users.Transaction, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if side != users.TradeBuy && side != users.TradeSell {
		return nil, ErrInvalidType
	}

	quote, err := ts.Quotes.Get(symbol)
	if err != nil {
		return nil, err
	}

	txn := users.Transaction{
		ID:        uuid.NewString(),
		Type:      side,
		Symbol:    quote.Symbol,
		Quantity:  quantity,
		Price:     quote.Price,
		Timestamp: ts.Now(),
	}
	amount := quote.Price.Mul(decimal.NewFromInt(quantity))

	_, err = ts.Users.Update(ctx, userID, func(u *users.User) error {
		p := &u.Portfolio

		if side == users.TradeBuy {
			if p.Cash.LessThan(amount) {
				return ErrInsufficientFunds
			}
			p.Cash = p.Cash.Sub(amount)

			if h := p.Holding(symbol); h != nil {
				// Weighted-average basis over the old position plus this buy.
				oldCost := h.AvgPrice.Mul(decimal.NewFromInt(h.Quantity))
				h.Quantity += quantity
				h.AvgPrice = oldCost.Add(amount).Div(decimal.NewFromInt(h.Quantity))
				h.CurrentPrice = quote.Price
			} else {
				p.Holdings = append(p.Holdings, users.Holding{
					Symbol:       quote.Symbol,
					Name:         quote.Name,
					Quantity:     quantity,
					AvgPrice:     quote.Price,
					CurrentPrice: quote.Price,
				})
			}
		} else {
			h := p.Holding(symbol)
			if h == nil || h.Quantity < quantity {
				return ErrInsufficientHoldings
			}
			p.Cash = p.Cash.Add(amount)
			h.Quantity -= quantity
			h.CurrentPrice = quote.Price
			if h.Quantity == 0 {
				p.RemoveHolding(symbol)
			}
		}

		p.Transactions = append(p.Transactions, txn)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &txn, nil
}
