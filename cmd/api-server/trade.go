package main

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/market"
	"github.com/Thepathakarpit/stocksfafo-sub001/internals/trade"
	"github.com/Thepathakarpit/stocksfafo-sub001/internals/users"
)

func (app *App) TransactStocks(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	var body trade.TradeRequestBody
	err := getBody(r, &body)
	if err != nil {
		writeTradeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txn, err := trade.New(app.Quotes, app.Users).Execute(r.Context(), userID, body.Symbol, body.Type, body.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, trade.ErrInvalidQuantity),
			errors.Is(err, trade.ErrInvalidType),
			errors.Is(err, trade.ErrInsufficientFunds),
			errors.Is(err, trade.ErrInsufficientHoldings):
			writeTradeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, market.ErrUnknownSymbol):
			writeError(w, http.StatusNotFound, "stock not found")
		case errors.Is(err, users.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			app.Log.Error("executing trade", zap.Error(err), zap.String("user_id", userID))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     fmt.Sprintf("%s order executed: %d %s @ %s", txn.Type, txn.Quantity, txn.Symbol, txn.Price),
		"transaction": txn,
	})
}
