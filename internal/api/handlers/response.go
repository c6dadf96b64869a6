package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/stockscope/internal/contracts"
)

// maxBodyBytes bounds POST request bodies
const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusFor maps an engine error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, contracts.ErrInvalidTicker),
		errors.Is(err, contracts.ErrInvalidRequest),
		errors.Is(err, contracts.ErrTooManyTickers):
		return http.StatusBadRequest
	case errors.Is(err, contracts.ErrTickerRejected):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a bounded JSON body into dest
func decodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dest)
}
