package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/internal/users"
	pkgAuth "github.com/agrilinkhq/agrilink-backend/pkg/auth"
	"github.com/agrilinkhq/agrilink-backend/pkg/config"
	"github.com/agrilinkhq/agrilink-backend/pkg/db"
	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
)

const invalidCredentialsMessage = "invalid credentials"

// Service covers registration, the one-time-code lifecycle, and session issuance.
type Service interface {
	RegisterFarmer(ctx context.Context, req RegisterFarmerRequest) (*RegisterResult, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResult, error)
	RequestOTP(ctx context.Context, req RequestOTPRequest) (*OTPIssue, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest) (*LoginResult, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	SetOTP(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error
	IncrementOTPAttempts(ctx context.Context, id uuid.UUID) error
	MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error
}

type service struct {
	users    userRepository
	sender   OTPSender
	jwtCfg   config.JWTConfig
	otpCfg   config.OTPConfig
	adminCfg config.AdminConfig
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo    userRepository
	Sender      OTPSender
	JWTConfig   config.JWTConfig
	OTPConfig   config.OTPConfig
	AdminConfig config.AdminConfig
	Now         func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("otp sender is required")
	}
	if params.OTPConfig.TTL <= 0 {
		return nil, fmt.Errorf("otp ttl must be positive")
	}
	if params.OTPConfig.MaxAttempts <= 0 {
		return nil, fmt.Errorf("otp max attempts must be positive")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:    params.UserRepo,
		sender:   params.Sender,
		jwtCfg:   params.JWTConfig,
		otpCfg:   params.OTPConfig,
		adminCfg: params.AdminConfig,
		now:      now,
	}, nil
}

func (s *service) RegisterFarmer(ctx context.Context, req RegisterFarmerRequest) (*RegisterResult, error) {
	if !req.LandArea.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "land area must be positive")
	}

	if _, err := s.users.FindByPhone(ctx, req.PhoneNumber); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone number already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup phone")
	}

	code, err := generateOTPCode()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	expiry := s.now().Add(s.otpCfg.TTL)
	landArea := req.LandArea

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		PhoneNumber: req.PhoneNumber,
		FullName:    req.FullName,
		Role:        enums.UserRoleFarmer,
		Email:       req.Email,
		LandArea:    &landArea,
		// Auto-verified because the code is delivered through a mocked
		// channel; verify-otp still exercises the full envelope.
		IsVerified: true,
		OTPCode:    code,
		OTPExpires: &expiry,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "phone number already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create farmer")
	}

	if err := s.sender.Send(ctx, user.PhoneNumber, code); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send otp")
	}

	token, err := s.mintToken(user)
	if err != nil {
		return nil, err
	}

	result := &RegisterResult{
		UserID: user.ID,
		Token:  token,
		User:   users.FromModel(user),
	}
	if s.otpCfg.ExposeInResponse {
		result.OTP = &code
		result.Expiry = &expiry
	}
	return result, nil
}

func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResult, error) {
	user, err := s.users.FindByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup phone")
	}

	now := s.now()
	if user.OTPCode == "" || user.OTPExpiresAt == nil || !now.Before(*user.OTPExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "otp expired, request a new one")
	}
	if user.OTPAttempts >= s.otpCfg.MaxAttempts {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "too many failed attempts, request a new otp")
	}
	if user.OTPCode != req.OTP {
		if err := s.users.IncrementOTPAttempts(ctx, user.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record failed attempt")
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid otp")
	}

	if err := s.users.MarkVerified(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume otp")
	}
	user.IsVerified = true
	user.OTPCode = ""
	user.OTPAttempts = 0

	token, err := s.mintToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: users.FromModel(user)}, nil
}

func (s *service) RequestOTP(ctx context.Context, req RequestOTPRequest) (*OTPIssue, error) {
	user, err := s.users.FindByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "phone number not registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup phone")
	}

	code, err := generateOTPCode()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	expiry := s.now().Add(s.otpCfg.TTL)

	if err := s.users.SetOTP(ctx, user.ID, code, expiry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store otp")
	}
	if err := s.sender.Send(ctx, user.PhoneNumber, code); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send otp")
	}

	issue := &OTPIssue{Expiry: expiry}
	if s.otpCfg.ExposeInResponse {
		issue.Code = &code
	}
	return issue, nil
}

func (s *service) AdminLogin(ctx context.Context, req AdminLoginRequest) (*LoginResult, error) {
	if req.PhoneNumber != s.adminCfg.Phone || req.OTP != s.adminCfg.OTP {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	admin, err := s.users.FindByPhone(ctx, s.adminCfg.Phone)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin")
		}
		admin, err = s.users.Create(ctx, users.CreateUserDTO{
			PhoneNumber: s.adminCfg.Phone,
			FullName:    "System Admin",
			Role:        enums.UserRoleAdmin,
			IsVerified:  true,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin")
		}
	}

	token, err := s.mintToken(admin)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: users.FromModel(admin)}, nil
}

func (s *service) mintToken(user *models.User) (string, error) {
	token, err := pkgAuth.MintSessionToken(s.jwtCfg, s.now(), pkgAuth.SessionTokenPayload{
		UserID:      user.ID,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}
	return token, nil
}
