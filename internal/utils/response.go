package utils

import (
	"encoding/json"
	"net/http"
)

type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteJSON serializes v with the right content type. Encoding failures are
// left to the caller's logger; the status line has already gone out.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError emits the generic error shape. The message is intentionally
// coarse; detail stays in the server logs.
func WriteError(w http.ResponseWriter, status int, message string) {
	_ = WriteJSON(w, status, ErrorBody{Success: false, Error: message})
}
