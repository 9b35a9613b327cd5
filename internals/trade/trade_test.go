package trade_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/market"
	"github.com/Thepathakarpit/stocksfafo-sub001/internals/trade"
	"github.com/Thepathakarpit/stocksfafo-sub001/internals/users"
)

type scriptedRand struct {
	vals []float64
	i    int
}

func (r *scriptedRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func newFixture(t *testing.T, quotes []market.Quote) (*trade.TradeService, *market.Store, *users.User) {
	t.Helper()
	store, err := users.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	u := users.New("ravi@example.com", "hash", "Ravi")
	if err := store.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	qs := market.NewStore(quotes)
	return trade.New(qs, store), qs, u
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestBuyDebitsCashAndCreatesHolding(t *testing.T) {
	svc, _, u := newFixture(t, market.DefaultQuotes())
	ctx := context.Background()

	fixed := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }

	txn, err := svc.Execute(ctx, u.ID, "RELIANCE", users.TradeBuy, 10)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if txn.Type != users.TradeBuy || txn.Symbol != "RELIANCE" || txn.Quantity != 10 {
		t.Errorf("transaction fields wrong: %+v", txn)
	}
	if !txn.Price.Equal(mustDecimal(t, "2850.75")) {
		t.Errorf("transaction price %s, want 2850.75", txn.Price)
	}
	if txn.ID == "" {
		t.Error("transaction id empty")
	}
	if !txn.Timestamp.Equal(fixed) {
		t.Errorf("transaction timestamp %s, want %s", txn.Timestamp, fixed)
	}

	got, err := svc.Users.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	// 500000 - 10*2850.75 = 471492.50
	if !got.Portfolio.Cash.Equal(mustDecimal(t, "471492.50")) {
		t.Errorf("cash %s, want 471492.50", got.Portfolio.Cash)
	}
	if len(got.Portfolio.Holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(got.Portfolio.Holdings))
	}
	h := got.Portfolio.Holdings[0]
	if h.Symbol != "RELIANCE" || h.Name != "Reliance Industries" || h.Quantity != 10 {
		t.Errorf("holding fields wrong: %+v", h)
	}
	if !h.AvgPrice.Equal(mustDecimal(t, "2850.75")) || !h.CurrentPrice.Equal(mustDecimal(t, "2850.75")) {
		t.Errorf("holding prices avg %s current %s, want 2850.75", h.AvgPrice, h.CurrentPrice)
	}
	if len(got.Portfolio.Transactions) != 1 {
		t.Errorf("expected exactly 1 transaction, got %d", len(got.Portfolio.Transactions))
	}
}

func TestBuyMergesWithWeightedAverage(t *testing.T) {
	seed := []market.Quote{{Symbol: "AAA", Name: "Test A", Price: decimal.NewFromInt(100)}}
	svc, qs, u := newFixture(t, seed)
	ctx := context.Background()

	if _, err := svc.Execute(ctx, u.ID, "AAA", users.TradeBuy, 10); err != nil {
		t.Fatalf("first buy: %v", err)
	}

	// Move the price to 110 with a scripted full-positive draw at 10%.
	sim := market.NewSimulator(qs, time.Second, 10.0, &scriptedRand{vals: []float64{1.0}}, market.RealClock{}, zap.NewNop())
	sim.Tick()

	if _, err := svc.Execute(ctx, u.ID, "AAA", users.TradeBuy, 10); err != nil {
		t.Fatalf("second buy: %v", err)
	}

	got, err := svc.Users.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	h := got.Portfolio.Holdings[0]
	if h.Quantity != 20 {
		t.Fatalf("quantity %d, want 20", h.Quantity)
	}
	// (100*10 + 110*10) / 20 = 105
	if !h.AvgPrice.Equal(mustDecimal(t, "105")) {
		t.Errorf("avg price %s, want 105", h.AvgPrice)
	}
	if !h.CurrentPrice.Equal(mustDecimal(t, "110")) {
		t.Errorf("current price %s, want 110", h.CurrentPrice)
	}
	// 500000 - 1000 - 1100 = 497900
	if !got.Portfolio.Cash.Equal(mustDecimal(t, "497900")) {
		t.Errorf("cash %s, want 497900", got.Portfolio.Cash)
	}
}

func TestSellCreditsCashAndRemovesHoldingAtZero(t *testing.T) {
	svc, _, u := newFixture(t, market.DefaultQuotes())
	ctx := context.Background()

	if _, err := svc.Execute(ctx, u.ID, "TCS", users.TradeBuy, 10); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := svc.Execute(ctx, u.ID, "TCS", users.TradeSell, 4); err != nil {
		t.Fatalf("partial sell: %v", err)
	}

	got, _ := svc.Users.Get(ctx, u.ID)
	if h := got.Portfolio.Holding("TCS"); h == nil || h.Quantity != 6 {
		t.Fatalf("expected 6 shares after partial sell, got %+v", h)
	}

	if _, err := svc.Execute(ctx, u.ID, "TCS", users.TradeSell, 6); err != nil {
		t.Fatalf("closing sell: %v", err)
	}

	got, _ = svc.Users.Get(ctx, u.ID)
	if h := got.Portfolio.Holding("TCS"); h != nil {
		t.Errorf("holding should be removed at zero, got %+v", h)
	}
	// Price never ticked, so the round trip restores the seed balance.
	if !got.Portfolio.Cash.Equal(users.SeedCash) {
		t.Errorf("cash %s, want %s", got.Portfolio.Cash, users.SeedCash)
	}
	if len(got.Portfolio.Transactions) != 3 {
		t.Errorf("expected 3 transactions, got %d", len(got.Portfolio.Transactions))
	}
}

func TestSellRejectsInsufficientHoldings(t *testing.T) {
	svc, _, u := newFixture(t, market.DefaultQuotes())
	ctx := context.Background()

	if _, err := svc.Execute(ctx, u.ID, "INFY", users.TradeSell, 1); !errors.Is(err, trade.ErrInsufficientHoldings) {
		t.Errorf("sell with no holding: expected ErrInsufficientHoldings, got %v", err)
	}

	if _, err := svc.Execute(ctx, u.ID, "INFY", users.TradeBuy, 5); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := svc.Execute(ctx, u.ID, "INFY", users.TradeSell, 10); !errors.Is(err, trade.ErrInsufficientHoldings) {
		t.Errorf("oversell: expected ErrInsufficientHoldings, got %v", err)
	}

	got, _ := svc.Users.Get(ctx, u.ID)
	if h := got.Portfolio.Holding("INFY"); h == nil || h.Quantity != 5 {
		t.Errorf("failed sell must not touch the holding, got %+v", h)
	}
	if len(got.Portfolio.Transactions) != 1 {
		t.Errorf("failed trades must not append transactions, got %d", len(got.Portfolio.Transactions))
	}
}

func TestBuyRejectsInsufficientFunds(t *testing.T) {
	svc, _, u := newFixture(t, market.DefaultQuotes())
	ctx := context.Background()

	// 200 * 2850.75 = 570150 > 500000.
	if _, err := svc.Execute(ctx, u.ID, "RELIANCE", users.TradeBuy, 200); !errors.Is(err, trade.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}

	got, _ := svc.Users.Get(ctx, u.ID)
	if !got.Portfolio.Cash.Equal(users.SeedCash) {
		t.Errorf("failed buy must not touch cash, got %s", got.Portfolio.Cash)
	}
	if len(got.Portfolio.Transactions) != 0 {
		t.Errorf("failed trades must not append transactions, got %d", len(got.Portfolio.Transactions))
	}
}

func TestExecuteValidatesInput(t *testing.T) {
	svc, _, u := newFixture(t, market.DefaultQuotes())
	ctx := context.Background()

	if _, err := svc.Execute(ctx, u.ID, "RELIANCE", users.TradeBuy, 0); !errors.Is(err, trade.ErrInvalidQuantity) {
		t.Errorf("zero quantity: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.Execute(ctx, u.ID, "RELIANCE", users.TradeBuy, -3); !errors.Is(err, trade.ErrInvalidQuantity) {
		t.Errorf("negative quantity: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.Execute(ctx, u.ID, "RELIANCE", "HOLD", 1); !errors.Is(err, trade.ErrInvalidType) {
		t.Errorf("bad side: expected ErrInvalidType, got %v", err)
	}
	if _, err := svc.Execute(ctx, u.ID, "NOPE", users.TradeBuy, 1); !errors.Is(err, market.ErrUnknownSymbol) {
		t.Errorf("unknown symbol: expected ErrUnknownSymbol, got %v", err)
	}
	if _, err := svc.Execute(ctx, "ghost", "RELIANCE", users.TradeBuy, 1); !errors.Is(err, users.ErrNotFound) {
		t.Errorf("unknown user: expected users.ErrNotFound, got %v", err)
	}
}
