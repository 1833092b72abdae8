package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/signetlabs/signet/pkg/slogx"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON serializes v with the given status. Encoding failures are logged
// but not surfaced; the status line has already gone out.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slogx.FromContext(r.Context()).Error("failed to encode response",
			slog.Int("status", status),
			slogx.Error(err))
	}
}

// WriteError sends a JSON error body with the given status.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSON(w, r, status, ErrorBody{Error: message})
}

// NoCache marks a response as uncacheable. Token responses must never land
// in a shared cache.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
