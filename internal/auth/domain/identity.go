package domain

import "time"

// Identity is the durable account record. It supports both local
// (email/password) and OAuth sign-in; an identity always has at least one
// authentication means: a credential digest, a provider identity, or both.
//
// Optional fields use the empty string as "absent", matching how the store
// maps NULL columns.
type Identity struct {
	ID    string
	Email string // normalized: trimmed, lower-cased; globally unique

	// Local authentication
	CredentialDigest string // argon2id PHC string; empty for OAuth-only accounts

	// OAuth authentication. (ProviderName, ProviderSubjectID) is unique
	// across all identities once set.
	ProviderName      string
	ProviderSubjectID string

	// Provider tokens retained for later provider API calls. Stored
	// best-effort and never validated here.
	ProviderAccessToken  string
	ProviderRefreshToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCredential reports whether the identity can authenticate with a password.
func (i Identity) HasCredential() bool { return i.CredentialDigest != "" }

// HasProviderIdentity reports whether an OAuth identity is linked.
func (i Identity) HasProviderIdentity() bool {
	return i.ProviderName != "" && i.ProviderSubjectID != ""
}
