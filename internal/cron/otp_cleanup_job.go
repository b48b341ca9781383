package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/agrilinkhq/agrilink-backend/pkg/logger"
)

const defaultOTPRetention = time.Hour

type otpCleanupRepo interface {
	ClearExpiredOTPs(ctx context.Context, cutoff time.Time) (int64, error)
}

// OTPCleanupJobParams configure the stale-OTP cleanup job.
type OTPCleanupJobParams struct {
	Logger     *logger.Logger
	Repository otpCleanupRepo
	Retention  time.Duration
}

// NewOTPCleanupJob builds a job that empties one-time-code envelopes whose
// expiry passed more than the retention window ago. Abandoned codes are
// useless after expiry; clearing them keeps the attempt counters from
// carrying over into the next issued code.
func NewOTPCleanupJob(params OTPCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("users repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultOTPRetention
	}
	return &otpCleanupJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type otpCleanupJob struct {
	logg      *logger.Logger
	repo      otpCleanupRepo
	retention time.Duration
	now       func() time.Time
}

func (j *otpCleanupJob) Name() string { return "otp-cleanup" }

func (j *otpCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	cleared, err := j.repo.ClearExpiredOTPs(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("otp cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_cleared": cleared,
	})
	j.logg.Info(logCtx, "otp cleanup complete")
	return nil
}
