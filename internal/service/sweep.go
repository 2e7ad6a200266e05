package service

import (
	"context"
	"time"

	"github.com/wayapps/waysite/internal/domain"
	"github.com/wayapps/waysite/internal/logger"
)

// AttemptSweeper purges login-attempt rows past the retention horizon.
// The throttle query already ignores old rows, this only keeps the table
// from growing without bound.
type AttemptSweeper struct {
	storage   SweepStorage
	retention time.Duration
}

type SweepStorage interface {
	PurgeAttemptsBefore(cutoff time.Time) (int64, error)
}

func NewAttemptSweeper(storage SweepStorage) *AttemptSweeper {
	return &AttemptSweeper{storage: storage, retention: domain.AttemptRetention}
}

// StartBackground runs Sweep on every tick until ctx is cancelled.
func (s *AttemptSweeper) StartBackground(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started login-attempt sweeper", "interval", interval, "retention", s.retention)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-ctx.Done():
				logger.Log.Info("login-attempt sweeper stopped")
				return
			}
		}
	}()
}

// Sweep executes a single purge cycle. Exported for manual maintenance.
func (s *AttemptSweeper) Sweep() {
	purged, err := s.storage.PurgeAttemptsBefore(time.Now().Add(-s.retention))
	if err != nil {
		logger.Log.Error("login-attempt sweep failed", "error", err)
		return
	}
	if purged > 0 {
		logger.Log.Info("purged stale login attempts", "rows", purged)
	}
}
