package identity

import (
	"context"
	"net"
	"net/http"

	"github.com/keyhaven/keyhaven/pkg/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated identity for a request.
// It combines the verified session claims with request-specific context.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   string

	// Request context
	RemoteIP  string
	UserAgent string
}

// FromUser creates an Identity from a user row.
func FromUser(user *model.User) *Identity {
	return &Identity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}
}

// WithRequest attaches the client IP and user agent from an HTTP request.
func (i *Identity) WithRequest(r *http.Request) *Identity {
	i.RemoteIP = ClientIP(r)
	i.UserAgent = r.Header.Get("User-Agent")
	return i
}

// IsAdmin reports whether the identity holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// IsManagerOrAdmin reports whether the identity holds admin or manager.
func (i *Identity) IsManagerOrAdmin() bool {
	return i.Role == model.RoleAdmin || i.Role == model.RoleManager
}

// ClientIP extracts the client address, honoring X-Forwarded-For.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
