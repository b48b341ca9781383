package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
)

// SessionTokenPayload captures the data available when minting a session token.
type SessionTokenPayload struct {
	UserID      uuid.UUID
	PhoneNumber string
	Role        enums.UserRole
}

// SessionTokenClaims represents the typed JWT issued to clients.
type SessionTokenClaims struct {
	UserID      uuid.UUID      `json:"user_id"`
	PhoneNumber string         `json:"phone_number"`
	Role        enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
