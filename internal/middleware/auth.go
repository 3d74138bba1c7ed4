// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sportwire/internal/authz"
	"sportwire/internal/models"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// identityKey is the context key for the decoded caller identity.
const identityKey contextKey = "identity"

// claims is the token payload issued by the identity provider.
type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate decodes a Bearer token and stores the caller identity in
// the request context. It does NOT enforce authentication — requests
// without a token, or with an invalid one, continue as anonymous.
// Enforcement belongs to the Require* middlewares.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := decodeToken(token, secret)
			if err != nil {
				// Invalid token: treat as anonymous rather than failing the
				// request, so public endpoints keep working with stale tokens.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// decodeToken verifies the signature and maps the claims to an Identity.
func decodeToken(token, secret string) (authz.Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return authz.Identity{}, jwt.ErrTokenUnverifiable
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return authz.Identity{}, err
	}
	role := models.Role(c.Role)
	if !models.ValidRole(role) {
		role = models.RoleUser
	}

	return authz.Identity{UserID: userID, Username: c.Username, Role: role}, nil
}

// IdentityFromCtx returns the caller identity, or the anonymous zero
// value when no valid token was presented.
func IdentityFromCtx(ctx context.Context) authz.Identity {
	id, _ := ctx.Value(identityKey).(authz.Identity)
	return id
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromCtx(r.Context()).Anonymous() {
			deny(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireRole builds an enforcement middleware from a role predicate.
// Anonymous callers get 401, authenticated but unqualified callers 403.
func requireRole(allowed func(authz.Identity) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromCtx(r.Context())
			if id.Anonymous() {
				deny(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !allowed(id) {
				deny(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireEditor admits EDITOR, MODERATOR and ADMIN.
var RequireEditor = requireRole(func(id authz.Identity) bool {
	return id.Role == models.RoleEditor || id.IsModerator()
})

// RequireModerator admits MODERATOR and ADMIN.
var RequireModerator = requireRole(authz.Identity.IsModerator)

// RequireAdmin admits ADMIN only.
var RequireAdmin = requireRole(authz.Identity.IsAdmin)
