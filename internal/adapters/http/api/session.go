// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
)

// Roles recognized by the role gate.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Session identifies the caller behind a bearer token.
type Session struct {
	Name string
	Role string
}

type sessionCtxKey struct{}

// SessionFromContext returns the session attached to ctx, if any.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(Session)
	return s, ok
}

// SessionMiddleware resolves bearer tokens into sessions and gates
// routes by role. The token table is static for the process lifetime;
// tokens map to "name:role" pairs.
type SessionMiddleware struct {
	sessions map[string]Session
}

// NewSessionMiddleware builds the middleware from a token table. Each
// value must be a "name:role" pair; entries with an unrecognized shape
// are skipped.
func NewSessionMiddleware(tokens map[string]string) *SessionMiddleware {
	sessions := make(map[string]Session, len(tokens))
	for token, pair := range tokens {
		name, role, ok := strings.Cut(pair, ":")
		if !ok || token == "" || name == "" {
			continue
		}
		sessions[token] = Session{Name: name, Role: strings.ToLower(role)}
	}
	return &SessionMiddleware{sessions: sessions}
}

// Attach resolves the Authorization header into a session on the
// request context. Requests without a valid token pass through with no
// session; RequireRole decides whether that matters.
func (m *SessionMiddleware) Attach(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if session, ok := m.sessions[token]; ok {
				r = r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, session))
			}
		}
		next.ServeHTTP(w, r)
	}
}

// RequireRole returns a middleware that rejects requests whose session
// role is not one of roles. Missing sessions get 401, wrong roles 403.
func (m *SessionMiddleware) RequireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[strings.ToLower(role)] = struct{}{}
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			const op = "api.require_role"
			session, ok := SessionFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
				return
			}
			if _, ok := allowed[session.Role]; !ok {
				writeError(w, http.StatusForbidden, "forbidden", NewKind(op, ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		}
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, prefix))
}
