package httperr

import (
	"encoding/json"
	"net/http"
)

type body struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// Write sends a structured JSON error body with the given status.
func Write(w http.ResponseWriter, status int, msg string) {
	WriteDetails(w, status, msg, nil)
}

func WriteDetails(w http.ResponseWriter, status int, msg string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body{Error: msg, Details: details})
}
