package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeedCash is the paper-money balance every portfolio starts with. PnL is
// always reported against this baseline, it is not per-user.
var SeedCash = decimal.NewFromInt(500000)

const (
	TradeBuy  = "BUY"
	TradeSell = "SELL"
)

// Users table structure. Password holds a bcrypt hash and is kept out of
// API responses; the persistence layers serialize it separately.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Portfolio Portfolio `json:"portfolio"`
}

type Portfolio struct {
	Cash         decimal.Decimal `json:"cash"`
	Holdings     []Holding       `json:"holdings"`
	Transactions []Transaction   `json:"transactions"`
}

// Holding is a user's position in one symbol. Quantity is always > 0
// while the holding is present; selling down to zero removes it.
type Holding struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Quantity     int64           `json:"quantity"`
	AvgPrice     decimal.Decimal `json:"avgPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
}

// Transaction is one executed trade. Records are append-only and never
// edited afterwards.
type Transaction struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Symbol    string          `json:"symbol"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// New creates a user with a fresh id and a seeded, empty portfolio.
func New(email, passwordHash, name string) *User {
	return &User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: passwordHash,
		Name:     name,
		Portfolio: Portfolio{
			Cash:         SeedCash,
			Holdings:     []Holding{},
			Transactions: []Transaction{},
		},
	}
}

// Clone returns a deep copy so callers can never mutate store-owned state.
func (u *User) Clone() *User {
	c := *u
	c.Portfolio = u.Portfolio.Clone()
	return &c
}

func (p Portfolio) Clone() Portfolio {
	c := p
	c.Holdings = make([]Holding, len(p.Holdings))
	copy(c.Holdings, p.Holdings)
	c.Transactions = make([]Transaction, len(p.Transactions))
	copy(c.Transactions, p.Transactions)
	return c
}

// Holding returns a pointer into the portfolio's holding list, or nil if
// the symbol is not held.
func (p *Portfolio) Holding(symbol string) *Holding {
	for i := range p.Holdings {
		if p.Holdings[i].Symbol == symbol {
			return &p.Holdings[i]
		}
	}
	return nil
}

// RemoveHolding drops the symbol's holding, preserving list order.
func (p *Portfolio) RemoveHolding(symbol string) {
	for i := range p.Holdings {
		if p.Holdings[i].Symbol == symbol {
			p.Holdings = append(p.Holdings[:i], p.Holdings[i+1:]...)
			return
		}
	}
}
