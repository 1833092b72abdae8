package httpx

import (
	"net/http"
	"strings"
)

// TokenVerifier authenticates a bearer token and returns the identity id it
// belongs to.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// BearerToken extracts the token from an Authorization header. The second
// return is false when the header is absent or not a Bearer scheme.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated identity id in the request context for handlers downstream.
func RequireAuth(verifier TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				unauthorized(w, r, "missing bearer token")
				return
			}

			identityID, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w, r, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentityID(r.Context(), identityID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	WriteError(w, r, http.StatusUnauthorized, message)
}
