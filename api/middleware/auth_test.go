package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/agrilinkhq/agrilink-backend/pkg/auth"
	"github.com/agrilinkhq/agrilink-backend/pkg/config"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
)

var testJWTConfig = config.JWTConfig{
	Secret:         "test-secret",
	Issuer:         "agrilink-test",
	ExpirationDays: 7,
}

func mintTestToken(t *testing.T, role enums.UserRole) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := pkgAuth.MintSessionToken(testJWTConfig, time.Now(), pkgAuth.SessionTokenPayload{
		UserID:      userID,
		PhoneNumber: "+919999900001",
		Role:        role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, userID
}

func TestAuthRejectsMissingAndInvalidTokens(t *testing.T) {
	handler := Auth(testJWTConfig, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without valid credentials")
	}))

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "empty bearer", header: "Bearer "},
		{name: "garbage token", header: "Bearer not-a-jwt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/farmer/profile", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthSeedsContextFromClaims(t *testing.T) {
	token, userID := mintTestToken(t, enums.UserRoleFarmer)

	var gotUserID, gotRole string
	handler := Auth(testJWTConfig, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/farmer/profile", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if gotUserID != userID.String() {
		t.Fatalf("user id %q, want %q", gotUserID, userID)
	}
	if gotRole != string(enums.UserRoleFarmer) {
		t.Fatalf("role %q, want farmer", gotRole)
	}
}

func TestRequireRoleBlocksOtherRoles(t *testing.T) {
	handler := RequireRole("admin", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/admin/metrics", nil)
	r = r.WithContext(WithRole(r.Context(), "farmer"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/admin/metrics", nil)
	r = r.WithContext(WithRole(r.Context(), "admin"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d, want 204", rec.Code)
	}
}
