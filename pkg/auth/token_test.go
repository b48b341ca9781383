package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/agrilinkhq/agrilink-backend/pkg/config"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:         "secret",
		Issuer:         "agrilink",
		ExpirationDays: 7,
	}
}

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	userID := uuid.New()

	payload := SessionTokenPayload{
		UserID:      userID,
		PhoneNumber: "+254700000001",
		Role:        enums.UserRoleFarmer,
	}

	token, err := MintSessionToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse session token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.PhoneNumber != payload.PhoneNumber {
		t.Fatalf("phone number not preserved: %s", claims.PhoneNumber)
	}
	if claims.Role != enums.UserRoleFarmer {
		t.Fatalf("unexpected role %s", claims.Role)
	}

	// RegisteredClaims is embedded, so access fields directly.
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %s", claims.Issuer)
	}
	wantExpiry := now.Add(cfg.TokenTTL())
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Sub(wantExpiry).Abs() > time.Second {
		t.Fatalf("expiry not derived from validity window")
	}
}

func TestMintSessionTokenValidation(t *testing.T) {
	now := time.Now().UTC()
	valid := SessionTokenPayload{
		UserID:      uuid.New(),
		PhoneNumber: "+254700000001",
		Role:        enums.UserRoleAdmin,
	}

	cases := []struct {
		name    string
		cfg     config.JWTConfig
		payload SessionTokenPayload
		wantErr string
	}{
		{
			name:    "missing secret",
			cfg:     config.JWTConfig{Issuer: "agrilink", ExpirationDays: 7},
			payload: valid,
			wantErr: "secret",
		},
		{
			name:    "missing issuer",
			cfg:     config.JWTConfig{Secret: "secret", ExpirationDays: 7},
			payload: valid,
			wantErr: "issuer",
		},
		{
			name:    "non-positive expiration",
			cfg:     config.JWTConfig{Secret: "secret", Issuer: "agrilink"},
			payload: valid,
			wantErr: "expiration",
		},
		{
			name: "invalid role",
			cfg:  testJWTConfig(),
			payload: SessionTokenPayload{
				UserID:      uuid.New(),
				PhoneNumber: "+254700000001",
				Role:        enums.UserRole("superuser"),
			},
			wantErr: "role",
		},
		{
			name: "missing phone",
			cfg:  testJWTConfig(),
			payload: SessionTokenPayload{
				UserID: uuid.New(),
				Role:   enums.UserRoleFarmer,
			},
			wantErr: "phone",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MintSessionToken(tc.cfg, now, tc.payload)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	issued := time.Now().UTC().Add(-time.Duration(cfg.ExpirationDays+1) * 24 * time.Hour)

	token, err := MintSessionToken(cfg, issued, SessionTokenPayload{
		UserID:      uuid.New(),
		PhoneNumber: "+254700000001",
		Role:        enums.UserRoleFarmer,
	})
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	if _, err := ParseSessionToken(cfg, token); err == nil {
		t.Fatalf("expected expired token to fail parsing")
	}
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now().UTC(), SessionTokenPayload{
		UserID:      uuid.New(),
		PhoneNumber: "+254700000001",
		Role:        enums.UserRoleFarmer,
	})
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseSessionToken(other, token); err == nil {
		t.Fatalf("expected signature mismatch to fail parsing")
	}
}

func TestParseSessionTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now().UTC(), SessionTokenPayload{
		UserID:      uuid.New(),
		PhoneNumber: "+254700000001",
		Role:        enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseSessionToken(other, token); err == nil {
		t.Fatalf("expected issuer mismatch to fail parsing")
	}
}
