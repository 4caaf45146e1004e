package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims this service understands. Every token
// scopes the caller to one association and carries a single role.
type Claims struct {
	AssociationID string `json:"association_id"`
	Role          string `json:"role"`
	jwt.RegisteredClaims
}

// Middleware authenticates bearer tokens and enforces the route policy.
type Middleware struct {
	secret []byte
	policy Policy
}

// NewMiddleware constructs an auth middleware.
func NewMiddleware(secret []byte, policy Policy) *Middleware {
	return &Middleware{secret: secret, policy: policy}
}

// Wrap applies authentication and role checks to next. Exempt paths and
// routes without a policy entry pass through untouched.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.policy.IsExempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		required, ok := m.policy.RequiredRole(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := m.authenticate(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		role, _ := NormalizeRole(claims.Role)
		if !RoleAtLeast(role, required) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		ctx := WithIdentity(r.Context(), claims.AssociationID, role, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate extracts and validates the bearer token. Only HS256 is
// accepted, and a token without an association or a known role is
// rejected even when its signature checks out.
func (m *Middleware) authenticate(r *http.Request) (*Claims, error) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || token == "" || !strings.EqualFold(scheme, "Bearer") {
		return nil, ErrUnauthorized
	}
	if len(m.secret) == 0 {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.AssociationID == "" {
		return nil, ErrInvalidToken
	}
	if _, ok := NormalizeRole(claims.Role); !ok {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
