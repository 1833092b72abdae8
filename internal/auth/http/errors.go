package http

import (
	"errors"
	"net/http"

	"github.com/signetlabs/signet/internal/auth/provider"
	"github.com/signetlabs/signet/internal/auth/service"
	"github.com/signetlabs/signet/pkg/httpx"
	"github.com/signetlabs/signet/pkg/slogx"
)

// statusFor maps service sentinels onto HTTP status codes. Anything not in
// the table is an internal error and must not leak its message.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrCSRFMismatch),
		errors.Is(err, service.ErrProviderDenied),
		errors.Is(err, service.ErrMissingCode):
		return http.StatusBadRequest, true

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenRevoked),
		errors.Is(err, service.ErrTokenMalformed):
		return http.StatusUnauthorized, true

	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, true

	case errors.Is(err, provider.ErrUnknownProvider),
		errors.Is(err, provider.ErrProviderNotConfigured):
		return http.StatusNotFound, true

	case errors.Is(err, service.ErrTokenExchangeFailed),
		errors.Is(err, service.ErrProfileFetchFailed),
		errors.Is(err, service.ErrMissingSubjectID),
		errors.Is(err, service.ErrMissingEmail):
		return http.StatusBadGateway, true
	}

	return http.StatusInternalServerError, false
}

// sentinelMessage unwraps to the sentinel's own text so wrapped detail
// (upstream error strings) stays server-side.
func sentinelMessage(err error) string {
	for _, sentinel := range []error{
		service.ErrInvalidInput,
		service.ErrCSRFMismatch,
		service.ErrProviderDenied,
		service.ErrMissingCode,
		service.ErrInvalidCredentials,
		service.ErrUnauthenticated,
		service.ErrTokenExpired,
		service.ErrTokenRevoked,
		service.ErrTokenMalformed,
		service.ErrConflict,
		provider.ErrUnknownProvider,
		provider.ErrProviderNotConfigured,
		service.ErrTokenExchangeFailed,
		service.ErrProfileFetchFailed,
		service.ErrMissingSubjectID,
		service.ErrMissingEmail,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal_error"
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, known := statusFor(err)
	if !known {
		slogx.FromContext(r.Context()).Error("request failed", slogx.Error(err))
	}
	httpx.WriteError(w, r, status, sentinelMessage(err))
}
