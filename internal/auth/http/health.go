package http

import (
	"net/http"

	"github.com/signetlabs/signet/pkg/httpx"
	"github.com/signetlabs/signet/pkg/slogx"
)

type healthResponse struct {
	Status string `json:"status"`
}

func (rt *Router) handleLivez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
}

func (rt *Router) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := rt.Store.Ping(r.Context()); err != nil {
		slogx.FromContext(r.Context()).Error("readiness check failed", slogx.Error(err))
		httpx.WriteJSON(w, r, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	httpx.WriteJSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
}
