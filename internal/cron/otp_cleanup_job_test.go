package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agrilinkhq/agrilink-backend/pkg/logger"
)

func TestOTPCleanupJobClearsStaleEnvelopes(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeOTPCleanupRepo{clearedRows: 7}
	job := newOTPCleanupJob(t, repo)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.UTC().Add(-defaultOTPRetention)
	if !repo.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, repo.lastCutoff)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestOTPCleanupJobPropagatesErrors(t *testing.T) {
	repo := &fakeOTPCleanupRepo{err: errors.New("boom")}
	job := newOTPCleanupJob(t, repo)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newOTPCleanupJob(t *testing.T, repo *fakeOTPCleanupRepo) *otpCleanupJob {
	t.Helper()
	jobIface, err := NewOTPCleanupJob(OTPCleanupJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewOTPCleanupJob: %v", err)
	}
	job, ok := jobIface.(*otpCleanupJob)
	if !ok {
		t.Fatalf("expected otpCleanupJob, got %T", jobIface)
	}
	return job
}

type fakeOTPCleanupRepo struct {
	lastCutoff  time.Time
	clearedRows int64
	err         error
	called      int
}

func (f *fakeOTPCleanupRepo) ClearExpiredOTPs(_ context.Context, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.clearedRows, nil
}
