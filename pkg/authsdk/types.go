package authsdk

// TokenResponse is returned by every endpoint that signs the caller in.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserInfo describes the authenticated identity.
type UserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Provider  string `json:"provider,omitempty"`
	CreatedAt string `json:"created_at"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
}
