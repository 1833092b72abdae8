package http

import (
	"encoding/json"
	"net/http"

	"github.com/signetlabs/signet/internal/auth/service"
	"github.com/signetlabs/signet/pkg/httpx"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func newTokenResponse(token string) tokenResponse {
	return tokenResponse{AccessToken: token, TokenType: "bearer"}
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeServiceError(w, r, service.ErrInvalidInput)
		return credentialsRequest{}, false
	}
	return req, true
}

func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := rt.Local.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, r, http.StatusCreated, newTokenResponse(token))
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := rt.Local.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, r, http.StatusOK, newTokenResponse(token))
}

func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		writeServiceError(w, r, service.ErrUnauthenticated)
		return
	}

	if err := rt.Local.Logout(token); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, r, http.StatusNoContent, nil)
}

func (rt *Router) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		writeServiceError(w, r, service.ErrUnauthenticated)
		return
	}

	fresh, err := rt.Tokens.Refresh(token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, r, http.StatusOK, newTokenResponse(fresh))
}
