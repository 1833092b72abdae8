package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/signetlabs/signet/internal/auth/service"
	"github.com/signetlabs/signet/internal/auth/store"
	"github.com/signetlabs/signet/pkg/httpx"
)

type userInfoResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Provider  string `json:"provider,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (rt *Router) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	identityID := httpx.IdentityID(r.Context())

	ident, err := rt.Store.Identities().GetIdentityByID(r.Context(), identityID)
	if err != nil {
		// A valid token for a deleted identity reads as unauthenticated,
		// not as a missing resource.
		if errors.Is(err, store.ErrNotFound) {
			writeServiceError(w, r, service.ErrUnauthenticated)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, r, http.StatusOK, userInfoResponse{
		ID:        ident.ID,
		Email:     ident.Email,
		Provider:  ident.ProviderName,
		CreatedAt: ident.CreatedAt.UTC().Format(time.RFC3339),
	})
}
