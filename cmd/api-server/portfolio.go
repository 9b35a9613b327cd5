package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/portfolio"
	"github.com/Thepathakarpit/stocksfafo-sub001/internals/users"
)

func (app *App) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	p, summary, err := portfolio.New(app.Quotes, app.Users).Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			// The session outlived the user record.
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		app.Log.Error("reading portfolio", zap.Error(err), zap.String("user_id", userID))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"portfolio": p,
		"summary":   summary,
	})
}
