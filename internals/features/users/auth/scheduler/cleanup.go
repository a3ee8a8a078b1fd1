package scheduler

import (
	"context"
	"time"

	"gorm.io/gorm"

	authRepo "diemdanh_backend/internals/features/users/auth/repository"
	"diemdanh_backend/internals/helpers/logging"
)

const DefaultCleanupInterval = 6 * time.Hour

// StartBlacklistCleanupScheduler runs once immediately, then every interval until ctx is done.
func StartBlacklistCleanupScheduler(ctx context.Context, db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			RunBlacklistCleanup(ctx, db, time.Now())
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func RunBlacklistCleanup(ctx context.Context, db *gorm.DB, now time.Time) {
	n, err := authRepo.CleanupExpiredBlacklist(ctx, db, now)
	if err != nil {
		logging.Error().Err(err).Msg("❌ token_blacklist cleanup failed")
		return
	}
	if n > 0 {
		logging.Info().Int64("deleted", n).Msg("🧹 token_blacklist cleaned")
	}
}
