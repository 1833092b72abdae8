package service

import "errors"

// Sentinel errors returned by the auth services. The HTTP layer maps these
// onto status codes; everything else stays an opaque 500.
var (
	ErrInvalidInput       = errors.New("invalid_input")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")

	ErrTokenExpired   = errors.New("token_expired")
	ErrTokenRevoked   = errors.New("token_revoked")
	ErrTokenMalformed = errors.New("token_malformed")

	ErrCSRFMismatch   = errors.New("csrf_state_mismatch")
	ErrProviderDenied = errors.New("provider_denied")
	ErrMissingCode    = errors.New("missing_authorization_code")

	ErrTokenExchangeFailed = errors.New("token_exchange_failed")
	ErrProfileFetchFailed  = errors.New("profile_fetch_failed")
	ErrMissingSubjectID    = errors.New("missing_subject_id")
	ErrMissingEmail        = errors.New("missing_email")
)
