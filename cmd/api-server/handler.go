package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/presenter"
)

func (app *App) initHandlers() {
	// The websocket route stays outside the presenter group: the
	// response buffer cannot hijack connections.
	app.R.Get("/ws", app.handleWebSocket)

	app.R.Group(func(r chi.Router) {
		r.Use(presenter.Middleware)

		r.Get("/health", app.Health)

		r.Get("/api/stocks", app.GetStocks)
		r.Get("/api/stocks/{symbol}", app.GetStock)

		r.Post("/api/auth/register", app.Register)
		r.Post("/api/auth/login", app.Login)

		r.Get("/api/portfolio", app.Middleware(http.HandlerFunc(app.GetPortfolio)))
		r.Post("/api/portfolio/trade", app.Middleware(http.HandlerFunc(app.TransactStocks)))

		r.Get("/api/leaderboard", app.Middleware(http.HandlerFunc(app.GetLeaderboard)))
	})
}

func (app *App) Health(w http.ResponseWriter, r *http.Request) {
	count, err := app.Users.Count(r.Context())
	if err != nil {
		app.Log.Error("counting users", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"users":     count,
		"stocks":    app.Quotes.Len(),
	})
}
