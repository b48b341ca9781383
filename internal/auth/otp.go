package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/agrilinkhq/agrilink-backend/pkg/logger"
)

// otpCodeSpace covers the 4-digit range 1000-9999.
var otpCodeSpace = big.NewInt(9000)

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpCodeSpace)
	if err != nil {
		return "", fmt.Errorf("generating otp: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}

// OTPSender delivers a code to the phone that requested it. SMS delivery is
// out of scope; the default implementation writes to the service log.
type OTPSender interface {
	Send(ctx context.Context, phone, code string) error
}

type logSender struct {
	logg *logger.Logger
}

// NewLogSender returns a sender that records codes in the structured log.
func NewLogSender(logg *logger.Logger) OTPSender {
	return logSender{logg: logg}
}

func (s logSender) Send(ctx context.Context, phone, code string) error {
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"phone": phone, "otp": code})
		s.logg.Info(ctx, "otp.issued")
	}
	return nil
}
