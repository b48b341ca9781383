package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/internal/users"
	"github.com/agrilinkhq/agrilink-backend/pkg/config"
	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
)

type stubUserRepo struct {
	byPhone map[string]*models.User

	createErr  error
	created    []users.CreateUserDTO
	increments int
	verified   int
	setOTPCode string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byPhone: map[string]*models.User{}}
}

func (s *stubUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, dto)
	user := dto.ToModel()
	user.ID = uuid.New()
	s.byPhone[user.PhoneNumber] = user
	return user, nil
}

func (s *stubUserRepo) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	user, ok := s.byPhone[phone]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *stubUserRepo) SetOTP(_ context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	s.setOTPCode = code
	for _, user := range s.byPhone {
		if user.ID == id {
			user.OTPCode = code
			user.OTPExpiresAt = &expiresAt
			user.OTPAttempts = 0
		}
	}
	return nil
}

func (s *stubUserRepo) IncrementOTPAttempts(_ context.Context, id uuid.UUID) error {
	s.increments++
	for _, user := range s.byPhone {
		if user.ID == id {
			user.OTPAttempts++
		}
	}
	return nil
}

func (s *stubUserRepo) MarkVerified(_ context.Context, id uuid.UUID, at time.Time) error {
	s.verified++
	for _, user := range s.byPhone {
		if user.ID == id {
			user.IsVerified = true
			user.OTPCode = ""
			user.OTPExpiresAt = &at
			user.OTPAttempts = 0
		}
	}
	return nil
}

type recordingSender struct {
	codes []string
}

func (r *recordingSender) Send(_ context.Context, _, code string) error {
	r.codes = append(r.codes, code)
	return nil
}

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, repo *stubUserRepo, expose bool) (Service, *recordingSender) {
	t.Helper()
	sender := &recordingSender{}
	svc, err := NewService(ServiceParams{
		UserRepo: repo,
		Sender:   sender,
		JWTConfig: config.JWTConfig{
			Secret:         "test-secret",
			Issuer:         "agrilink-test",
			ExpirationDays: 7,
		},
		OTPConfig: config.OTPConfig{
			TTL:              5 * time.Minute,
			MaxAttempts:      3,
			ExposeInResponse: expose,
		},
		AdminConfig: config.AdminConfig{Phone: "+918888888888", OTP: "4321"},
		Now:         func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, sender
}

func seedFarmer(repo *stubUserRepo, phone, code string, expiry time.Time, attempts int) *models.User {
	user := &models.User{
		ID:           uuid.New(),
		PhoneNumber:  phone,
		FullName:     "Ravi Kumar",
		Role:         enums.UserRoleFarmer,
		IsVerified:   true,
		OTPCode:      code,
		OTPExpiresAt: &expiry,
		OTPAttempts:  attempts,
	}
	repo.byPhone[phone] = user
	return user
}

func TestRegisterFarmer(t *testing.T) {
	t.Run("creates verified farmer and issues token", func(t *testing.T) {
		repo := newStubUserRepo()
		svc, sender := newTestService(t, repo, false)

		result, err := svc.RegisterFarmer(context.Background(), RegisterFarmerRequest{
			PhoneNumber: "+919999900001",
			FullName:    "Ravi Kumar",
			LandArea:    decimal.NewFromFloat(2.5),
		})
		if err != nil {
			t.Fatalf("RegisterFarmer: %v", err)
		}
		if result.Token == "" {
			t.Fatal("expected a session token")
		}
		if result.OTP != nil {
			t.Fatal("otp must not be echoed when the expose flag is off")
		}
		if len(repo.created) != 1 {
			t.Fatalf("expected one create, got %d", len(repo.created))
		}
		created := repo.created[0]
		if !created.IsVerified {
			t.Fatal("farmer should be auto verified on registration")
		}
		if created.Role != enums.UserRoleFarmer {
			t.Fatalf("unexpected role %q", created.Role)
		}
		if len(created.OTPCode) != 4 || created.OTPCode[0] == '0' {
			t.Fatalf("otp %q not in 1000-9999", created.OTPCode)
		}
		if len(sender.codes) != 1 || sender.codes[0] != created.OTPCode {
			t.Fatalf("sender got %v, want stored code %q", sender.codes, created.OTPCode)
		}
	})

	t.Run("echoes otp when expose flag is on", func(t *testing.T) {
		repo := newStubUserRepo()
		svc, _ := newTestService(t, repo, true)

		result, err := svc.RegisterFarmer(context.Background(), RegisterFarmerRequest{
			PhoneNumber: "+919999900002",
			FullName:    "Ravi Kumar",
			LandArea:    decimal.NewFromInt(3),
		})
		if err != nil {
			t.Fatalf("RegisterFarmer: %v", err)
		}
		if result.OTP == nil || result.Expiry == nil {
			t.Fatal("expose flag should echo code and expiry")
		}
		wantExpiry := testNow.Add(5 * time.Minute)
		if !result.Expiry.Equal(wantExpiry) {
			t.Fatalf("expiry %v, want %v", result.Expiry, wantExpiry)
		}
	})

	t.Run("duplicate phone conflicts", func(t *testing.T) {
		repo := newStubUserRepo()
		seedFarmer(repo, "+919999900003", "", testNow, 0)
		svc, _ := newTestService(t, repo, false)

		_, err := svc.RegisterFarmer(context.Background(), RegisterFarmerRequest{
			PhoneNumber: "+919999900003",
			FullName:    "Ravi Kumar",
			LandArea:    decimal.NewFromInt(1),
		})
		assertCode(t, err, pkgerrors.CodeConflict)
	})

	t.Run("rejects non positive land area", func(t *testing.T) {
		repo := newStubUserRepo()
		svc, _ := newTestService(t, repo, false)

		_, err := svc.RegisterFarmer(context.Background(), RegisterFarmerRequest{
			PhoneNumber: "+919999900004",
			FullName:    "Ravi Kumar",
			LandArea:    decimal.Zero,
		})
		assertCode(t, err, pkgerrors.CodeValidation)
		if len(repo.created) != 0 {
			t.Fatal("no user should be created")
		}
	})
}

func TestVerifyOTP(t *testing.T) {
	const phone = "+919999900010"

	t.Run("unknown phone is not found", func(t *testing.T) {
		svc, _ := newTestService(t, newStubUserRepo(), false)
		_, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{PhoneNumber: phone, OTP: "1234"})
		assertCode(t, err, pkgerrors.CodeNotFound)
	})

	t.Run("expired envelope rejected", func(t *testing.T) {
		repo := newStubUserRepo()
		seedFarmer(repo, phone, "1234", testNow.Add(-time.Second), 0)
		svc, _ := newTestService(t, repo, false)

		_, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{PhoneNumber: phone, OTP: "1234"})
		assertCode(t, err, pkgerrors.CodeValidation)
		assertMessageContains(t, err, "expired")
	})

	t.Run("cleared envelope behaves as expired", func(t *testing.T) {
		repo := newStubUserRepo()
		seedFarmer(repo, phone, "", testNow.Add(time.Minute), 0)
		svc, _ := newTestService(t, repo, false)

		_, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{PhoneNumber: phone, OTP: "1234"})
		assertCode(t, err, pkgerrors.CodeValidation)
		assertMessageContains(t, err, "expired")
	})

	t.Run("mismatch increments attempts", func(t *testing.T) {
		repo := newStubUserRepo()
		seedFarmer(repo, phone, "1234", testNow.Add(time.Minute), 0)
		svc, _ := newTestService(t, repo, false)

		_, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{PhoneNumber: phone, OTP: "9999"})
		assertCode(t, err, pkgerrors.CodeValidation)
		if repo.increments != 1 {
			t.Fatalf("attempts incremented %d times, want 1", repo.increments)
		}
	})

	t.Run("locks after max attempts even with the right code", func(t *testing.T) {
		repo := newStubUserRepo()
		seedFarmer(repo, phone, "1234", testNow.Add(time.Minute), 3)
		svc, _ := newTestService(t, repo, false)

		_, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{PhoneNumber: phone, OTP: "1234"})
		assertCode(t, err, pkgerrors.CodeValidation)
		assertMessageContains(t, err, "attempts")
		if repo.increments != 0 {
			t.Fatal("locked envelope must not increment further")
		}
	})

	t.Run("match issues token and consumes envelope", func(t *testing.T) {
		repo := newStubUserRepo()
		seedFarmer(repo, phone, "1234", testNow.Add(time.Minute), 2)
		svc, _ := newTestService(t, repo, false)

		result, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{PhoneNumber: phone, OTP: "1234"})
		if err != nil {
			t.Fatalf("VerifyOTP: %v", err)
		}
		if result.Token == "" {
			t.Fatal("expected a session token")
		}
		if repo.verified != 1 {
			t.Fatalf("MarkVerified called %d times, want 1", repo.verified)
		}

		// Replaying the same code must fail once the envelope is consumed.
		_, err = svc.VerifyOTP(context.Background(), VerifyOTPRequest{PhoneNumber: phone, OTP: "1234"})
		assertCode(t, err, pkgerrors.CodeValidation)
	})
}

func TestRequestOTP(t *testing.T) {
	const phone = "+919999900020"

	t.Run("unknown phone is not found", func(t *testing.T) {
		svc, _ := newTestService(t, newStubUserRepo(), false)
		_, err := svc.RequestOTP(context.Background(), RequestOTPRequest{PhoneNumber: phone})
		assertCode(t, err, pkgerrors.CodeNotFound)
	})

	t.Run("stores and sends a fresh code", func(t *testing.T) {
		repo := newStubUserRepo()
		seedFarmer(repo, phone, "1234", testNow.Add(-time.Hour), 3)
		svc, sender := newTestService(t, repo, false)

		issue, err := svc.RequestOTP(context.Background(), RequestOTPRequest{PhoneNumber: phone})
		if err != nil {
			t.Fatalf("RequestOTP: %v", err)
		}
		if issue.Code != nil {
			t.Fatal("otp must not be echoed when the expose flag is off")
		}
		if !issue.Expiry.Equal(testNow.Add(5 * time.Minute)) {
			t.Fatalf("unexpected expiry %v", issue.Expiry)
		}
		user := repo.byPhone[phone]
		if user.OTPCode != repo.setOTPCode || user.OTPAttempts != 0 {
			t.Fatalf("envelope not reset: code=%q attempts=%d", user.OTPCode, user.OTPAttempts)
		}
		if len(sender.codes) != 1 || sender.codes[0] != repo.setOTPCode {
			t.Fatalf("sender got %v, want %q", sender.codes, repo.setOTPCode)
		}
	})
}

func TestAdminLogin(t *testing.T) {
	t.Run("rejects wrong pair", func(t *testing.T) {
		svc, _ := newTestService(t, newStubUserRepo(), false)
		_, err := svc.AdminLogin(context.Background(), AdminLoginRequest{PhoneNumber: "+918888888888", OTP: "0000"})
		assertCode(t, err, pkgerrors.CodeUnauthorized)
	})

	t.Run("lazily creates the admin user", func(t *testing.T) {
		repo := newStubUserRepo()
		svc, _ := newTestService(t, repo, false)

		result, err := svc.AdminLogin(context.Background(), AdminLoginRequest{PhoneNumber: "+918888888888", OTP: "4321"})
		if err != nil {
			t.Fatalf("AdminLogin: %v", err)
		}
		if result.Token == "" {
			t.Fatal("expected a session token")
		}
		if result.User.Role != enums.UserRoleAdmin {
			t.Fatalf("role %q, want admin", result.User.Role)
		}
		if len(repo.created) != 1 {
			t.Fatalf("admin created %d times, want 1", len(repo.created))
		}

		// A second login reuses the stored row.
		if _, err := svc.AdminLogin(context.Background(), AdminLoginRequest{PhoneNumber: "+918888888888", OTP: "4321"}); err != nil {
			t.Fatalf("second AdminLogin: %v", err)
		}
		if len(repo.created) != 1 {
			t.Fatal("admin must not be created twice")
		}
	})
}

func TestGenerateOTPCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateOTPCode()
		if err != nil {
			t.Fatalf("generateOTPCode: %v", err)
		}
		if len(code) != 4 || code < "1000" || code > "9999" {
			t.Fatalf("code %q out of range", code)
		}
	}
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("error %v is not a coded error", err)
	}
	if appErr.Code() != want {
		t.Fatalf("code %q, want %q", appErr.Code(), want)
	}
}

func assertMessageContains(t *testing.T, err error, fragment string) {
	t.Helper()
	if err == nil || !strings.Contains(strings.ToLower(err.Error()), fragment) {
		t.Fatalf("error %v does not mention %q", err, fragment)
	}
}
