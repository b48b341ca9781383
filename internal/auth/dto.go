package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrilinkhq/agrilink-backend/internal/users"
)

// RegisterFarmerRequest is the payload accepted by the farmer registration endpoint.
type RegisterFarmerRequest struct {
	PhoneNumber string          `json:"phoneNumber" validate:"required,e164|numeric"`
	FullName    string          `json:"fullName" validate:"required"`
	LandArea    decimal.Decimal `json:"landArea" validate:"required"`
	Email       *string         `json:"email,omitempty" validate:"omitempty,email"`
}

// VerifyOTPRequest carries a phone/code pair for verification.
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	OTP         string `json:"otp" validate:"required"`
}

// RequestOTPRequest asks for a fresh code for a registered phone.
type RequestOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// AdminLoginRequest carries the out-of-band admin credential pair.
type AdminLoginRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	OTP         string `json:"otp" validate:"required"`
}

// OTPIssue reports a freshly issued envelope. Code is populated only when the
// development echo flag is on; delivery otherwise happens out of band.
type OTPIssue struct {
	Code   *string   `json:"otp,omitempty"`
	Expiry time.Time `json:"otpExpiry"`
}

// RegisterResult is returned after a successful farmer registration.
type RegisterResult struct {
	UserID uuid.UUID      `json:"userId"`
	Token  string         `json:"token"`
	OTP    *string        `json:"otp,omitempty"`
	Expiry *time.Time     `json:"otpExpiry,omitempty"`
	User   *users.UserDTO `json:"user"`
}

// LoginResult is returned by verify-otp and admin-login.
type LoginResult struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
