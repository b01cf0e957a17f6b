package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackzampolin/hidef/internal/dictionary"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor maps a resolution error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dictionary.ErrInvalidInput):
		return http.StatusBadRequest
	case dictionary.IsOracleError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
