package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/example/bookmyroom/internal/model"
)

type ctxKey int

const ctxKeyIdentity ctxKey = iota

// Identity is the authenticated caller as every handler sees it.
type Identity struct {
	UserID string
	Email  string
	Role   model.Role
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return id, ok
}

// UserLoader resolves a session cookie's user id to the current user record,
// so a role change takes effect without re-login for cookie sessions.
type UserLoader func(ctx context.Context, userID string) (model.User, error)

type Middleware struct {
	tokens   *TokenIssuer
	sessions *SessionManager
	loadUser UserLoader
}

func NewMiddleware(tokens *TokenIssuer, sessions *SessionManager, loadUser UserLoader) *Middleware {
	return &Middleware{tokens: tokens, sessions: sessions, loadUser: loadUser}
}

// Require authenticates via bearer token or session cookie and rejects 401
// otherwise.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.identify(r)
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyIdentity, id)))
	})
}

// RequireRole authenticates and additionally rejects 403 unless the caller
// holds one of the given roles.
func (m *Middleware) RequireRole(next http.Handler, roles ...model.Role) http.Handler {
	return m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFromContext(r.Context())
		for _, role := range roles {
			if id.Role == role {
				next.ServeHTTP(w, r)
				return
			}
		}
		http.Error(w, "insufficient role", http.StatusForbidden)
	}))
}

func (m *Middleware) identify(r *http.Request) (Identity, bool) {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		claims, err := m.tokens.Parse(raw)
		if err != nil {
			return Identity{}, false
		}
		return Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, true
	}

	if m.sessions != nil && m.loadUser != nil {
		if uid, ok := m.sessions.UserID(r); ok {
			u, err := m.loadUser(r.Context(), uid)
			if err != nil {
				return Identity{}, false
			}
			return Identity{UserID: u.ID, Email: u.Email, Role: u.Role}, true
		}
	}

	return Identity{}, false
}
