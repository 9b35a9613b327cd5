package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *App) GetStocks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    app.Quotes.Snapshot(),
	})
}

func (app *App) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	quote, err := app.Quotes.Get(symbol)
	if err != nil {
		writeError(w, http.StatusNotFound, "stock not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    quote,
	})
}
