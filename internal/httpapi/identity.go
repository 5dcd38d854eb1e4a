package httpapi

import (
	"context"
	"net/http"
	"strings"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	RoleAdmin = "admin"
)

// Identity is the caller as asserted by the upstream auth provider.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type identityKey struct{}

// IdentityMiddleware copies the identity headers into the request context.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{
			UserID: strings.TrimSpace(r.Header.Get(HeaderUserID)),
			Role:   strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole))),
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}
