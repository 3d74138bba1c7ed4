package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sportwire/internal/authz"
	"sportwire/internal/models"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, userID uuid.UUID, username string, role models.Role, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: username,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// identityEcho records the identity the middleware put in context.
func identityEcho(got *authz.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = IdentityFromCtx(r.Context())
	})
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()

	t.Run("valid token loads identity", func(t *testing.T) {
		var got authz.Identity
		handler := Authenticate(testSecret)(identityEcho(&got))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, userID, "alice", models.RoleEditor, testSecret))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if got.UserID != userID {
			t.Errorf("user id: got %s, want %s", got.UserID, userID)
		}
		if got.Username != "alice" {
			t.Errorf("username: got %q, want %q", got.Username, "alice")
		}
		if got.Role != models.RoleEditor {
			t.Errorf("role: got %q, want %q", got.Role, models.RoleEditor)
		}
	})

	t.Run("missing token continues anonymous", func(t *testing.T) {
		var got authz.Identity
		handler := Authenticate(testSecret)(identityEcho(&got))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

		if !got.Anonymous() {
			t.Errorf("expected anonymous identity, got %+v", got)
		}
	})

	t.Run("wrong secret continues anonymous", func(t *testing.T) {
		var got authz.Identity
		handler := Authenticate(testSecret)(identityEcho(&got))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, userID, "mallory", models.RoleAdmin, "other-secret"))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if !got.Anonymous() {
			t.Errorf("expected anonymous identity, got %+v", got)
		}
	})

	t.Run("expired token continues anonymous", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
			Username: "alice",
			Role:     string(models.RoleUser),
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		signed, err := token.SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}

		var got authz.Identity
		handler := Authenticate(testSecret)(identityEcho(&got))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if !got.Anonymous() {
			t.Errorf("expected anonymous identity, got %+v", got)
		}
	})

	t.Run("unknown role downgrades to USER", func(t *testing.T) {
		var got authz.Identity
		handler := Authenticate(testSecret)(identityEcho(&got))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, userID, "bob", models.Role("SUPERUSER"), testSecret))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if got.Role != models.RoleUser {
			t.Errorf("role: got %q, want %q", got.Role, models.RoleUser)
		}
	})
}

func TestRequireUser(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous gets 401", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RequireUser(okHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: got %q, want application/json", ct)
		}
	})

	t.Run("authenticated passes", func(t *testing.T) {
		chain := Authenticate(testSecret)(RequireUser(okHandler))
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.New(), "alice", models.RoleUser, testSecret))

		rr := httptest.NewRecorder()
		chain.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

func TestRequireRoles(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name string
		mw   func(http.Handler) http.Handler
		role models.Role
		want int
	}{
		{"editor passes RequireEditor", RequireEditor, models.RoleEditor, http.StatusOK},
		{"moderator passes RequireEditor", RequireEditor, models.RoleModerator, http.StatusOK},
		{"user denied RequireEditor", RequireEditor, models.RoleUser, http.StatusForbidden},
		{"moderator passes RequireModerator", RequireModerator, models.RoleModerator, http.StatusOK},
		{"admin passes RequireModerator", RequireModerator, models.RoleAdmin, http.StatusOK},
		{"editor denied RequireModerator", RequireModerator, models.RoleEditor, http.StatusForbidden},
		{"admin passes RequireAdmin", RequireAdmin, models.RoleAdmin, http.StatusOK},
		{"moderator denied RequireAdmin", RequireAdmin, models.RoleModerator, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := Authenticate(testSecret)(tt.mw(okHandler))
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.New(), "someone", tt.role, testSecret))

			rr := httptest.NewRecorder()
			chain.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}

	t.Run("anonymous gets 401 not 403", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RequireModerator(okHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
	})
}
