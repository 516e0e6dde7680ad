package middleware

import (
	"net/http"
	"strings"

	"github.com/keyhaven/keyhaven/pkg/authn"
	"github.com/keyhaven/keyhaven/pkg/identity"
	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

// SessionAuthenticator is middleware that validates bearer session tokens.
// The stored user is re-fetched on every request so a role change or
// deactivation takes effect immediately, not at token expiry.
type SessionAuthenticator struct {
	Issuer *authn.TokenIssuer
	Users  store.UsersStore
}

// NewSessionAuthenticator creates a new session authenticator middleware
func NewSessionAuthenticator(issuer *authn.TokenIssuer, users store.UsersStore) *SessionAuthenticator {
	return &SessionAuthenticator{Issuer: issuer, Users: users}
}

// Middleware returns an HTTP middleware that validates session tokens
func (s *SessionAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Authorization missing"))
			return
		}

		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Malformed authorization header"))
			return
		}

		claims, err := s.Issuer.Verify(tokenStr)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid session token"))
			return
		}

		user, err := s.Users.FindByID(claims.Subject)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unknown session subject"))
			return
		}
		if user.Status != model.StatusActive {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("User is not active"))
			return
		}

		id := identity.FromUser(user).WithRequest(r)
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}
