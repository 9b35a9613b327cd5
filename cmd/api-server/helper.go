package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

var (
	ErrCouldNotParseBody = errors.New("could not parse request body")
	ErrCouldNotReadBody  = errors.New("could not read request body")
)

func getBody(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ErrCouldNotReadBody
	}
	err = json.Unmarshal(body, v)
	if err != nil {
		return ErrCouldNotParseBody
	}
	return nil
}

func writeJSON(rw http.ResponseWriter, status int, v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		rw.Header().Set("Content-Type", "application/json; charset=utf-8")
		rw.WriteHeader(http.StatusInternalServerError)
		rw.Write([]byte(`{"error": "could not marshal response"}`))
		return
	}
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.WriteHeader(status)
	rw.Write(out)
}

// writeError sends the plain {error} body the 401/404 paths use.
func writeError(rw http.ResponseWriter, status int, msg string) {
	writeJSON(rw, status, map[string]string{"error": msg})
}

// writeTradeError sends the {success:false, message} body trade
// validation failures use.
func writeTradeError(rw http.ResponseWriter, status int, msg string) {
	writeJSON(rw, status, map[string]interface{}{"success": false, "message": msg})
}
