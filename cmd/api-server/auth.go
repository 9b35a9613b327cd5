package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/auth"
	"github.com/Thepathakarpit/stocksfafo-sub001/internals/users"
)

func (app *App) Register(w http.ResponseWriter, r *http.Request) {

	var registerDetails auth.RegisterRequestBody
	err := getBody(r, &registerDetails)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := auth.New(app.Users, app.KVStore).Register(r.Context(), registerDetails)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, users.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "email already registered")
		default:
			app.Log.Error("registering user", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func (app *App) Login(w http.ResponseWriter, r *http.Request) {

	var loginDetails auth.LoginRequestBody
	err := getBody(r, &loginDetails)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := auth.New(app.Users, app.KVStore).Login(r.Context(), loginDetails)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		app.Log.Error("logging in", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user,
	})
}
