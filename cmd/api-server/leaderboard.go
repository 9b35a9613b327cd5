package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/leaderboard"
)

func (app *App) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := leaderboard.New(app.Quotes, app.Users).GetLeaderboard(r.Context())
	if err != nil {
		app.Log.Error("building leaderboard", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    entries,
	})
}
