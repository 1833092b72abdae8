// Package http exposes the auth service over HTTP. Handlers stay thin:
// decode, call a service, encode.
package http

import (
	"log/slog"
	"net/http"

	"github.com/signetlabs/signet/internal/auth/service"
	"github.com/signetlabs/signet/internal/auth/store"
	"github.com/signetlabs/signet/pkg/httpx"
	"github.com/signetlabs/signet/pkg/slogx"
)

type Router struct {
	Local  *service.LocalService
	OAuth  *service.OAuthService
	Tokens *service.TokenService
	Store  store.Store
	Logger *slog.Logger

	// SecureCookies controls the Secure flag on the OAuth state cookie.
	// Off only for local development over plain HTTP.
	SecureCookies bool
}

func NewRouter(
	local *service.LocalService,
	oauth *service.OAuthService,
	tokens *service.TokenService,
	st store.Store,
	logger *slog.Logger,
	secureCookies bool,
) *Router {
	return &Router{
		Local:         local,
		OAuth:         oauth,
		Tokens:        tokens,
		Store:         st,
		Logger:        logger,
		SecureCookies: secureCookies,
	}
}

// Handler builds the full route table wrapped in the request middleware.
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/auth/register", rt.handleRegister)
	mux.HandleFunc("POST /v1/auth/login", rt.handleLogin)
	mux.HandleFunc("POST /v1/auth/logout", rt.handleLogout)
	mux.HandleFunc("POST /v1/auth/refresh", rt.handleRefresh)

	mux.HandleFunc("GET /v1/auth/oauth/{provider}", rt.handleOAuthInitiate)
	mux.HandleFunc("GET /v1/auth/oauth/{provider}/callback", rt.handleOAuthCallback)

	mux.Handle("GET /v1/userinfo",
		httpx.Chain(http.HandlerFunc(rt.handleUserInfo), httpx.RequireAuth(rt.Tokens)))

	mux.HandleFunc("GET /livez", rt.handleLivez)
	mux.HandleFunc("GET /readyz", rt.handleReadyz)

	return httpx.Chain(mux, slogx.HTTPMiddleware(rt.Logger))
}
