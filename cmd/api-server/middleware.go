package main

import (
	"context"
	"net/http"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/auth"
)

// Middleware resolves the bearer token to a user id and rejects the
// request with 401 when it cannot.
func (app *App) Middleware(next http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		authHeader := r.Header.Get("Authorization")
		var token string
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		}

		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		userID, err := auth.New(app.Users, app.KVStore).Resolve(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), "user_id", userID)

		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	})
}
