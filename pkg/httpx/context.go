package httpx

import "context"

type identityKey struct{}

// WithIdentityID stores the authenticated identity id in the context.
func WithIdentityID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityID returns the authenticated identity id, or "" when the request
// did not pass authentication middleware.
func IdentityID(ctx context.Context) string {
	id, _ := ctx.Value(identityKey{}).(string)
	return id
}
