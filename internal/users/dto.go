package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
)

// UserDTO is the transport shape that omits the one-time-code envelope.
type UserDTO struct {
	ID          uuid.UUID        `json:"id"`
	PhoneNumber string           `json:"phoneNumber"`
	FullName    string           `json:"fullName"`
	Role        enums.UserRole   `json:"userType"`
	Email       *string          `json:"email,omitempty"`
	LandArea    *decimal.Decimal `json:"landArea,omitempty"`
	IsVerified  bool             `json:"isVerified"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	PhoneNumber string
	FullName    string
	Role        enums.UserRole
	Email       *string
	LandArea    *decimal.Decimal
	IsVerified  bool
	OTPCode     string
	OTPExpires  *time.Time
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		PhoneNumber: u.PhoneNumber,
		FullName:    u.FullName,
		Role:        u.Role,
		Email:       u.Email,
		LandArea:    u.LandArea,
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		PhoneNumber:  c.PhoneNumber,
		FullName:     c.FullName,
		Role:         c.Role,
		Email:        c.Email,
		LandArea:     c.LandArea,
		IsVerified:   c.IsVerified,
		OTPCode:      c.OTPCode,
		OTPExpiresAt: c.OTPExpires,
	}
}
