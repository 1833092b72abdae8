package http

import (
	"net/http"
	"time"

	"github.com/signetlabs/signet/internal/auth/service"
	"github.com/signetlabs/signet/pkg/httpx"
)

const (
	stateCookieName = "__oauth_state"

	// stateCookieTTL bounds how long a pending authorization flow stays
	// valid. Plenty for a human consent screen.
	stateCookieTTL = 5 * time.Minute
)

func (rt *Router) handleOAuthInitiate(w http.ResponseWriter, r *http.Request) {
	init, err := rt.OAuth.Initiate(r.PathValue("provider"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    init.State,
		Path:     "/v1/auth/oauth",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   rt.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, init.RedirectURL, http.StatusFound)
}

func (rt *Router) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	// The state cookie is read-once: cleared before any validation so a
	// replayed callback always fails the CSRF check.
	expectedState := ""
	if cookie, err := r.Cookie(stateCookieName); err == nil {
		expectedState = cookie.Value
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/v1/auth/oauth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   rt.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	q := r.URL.Query()
	token, err := rt.OAuth.Callback(r.Context(), r.PathValue("provider"), service.CallbackParams{
		State:         q.Get("state"),
		ExpectedState: expectedState,
		Code:          q.Get("code"),
		ProviderError: q.Get("error"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, r, http.StatusOK, newTokenResponse(token))
}
