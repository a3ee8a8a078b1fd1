// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "diemdanh_backend/internals/features/users/auth/model"
)

/* ====================== BLACKLIST TOKEN ====================== */

// BlacklistToken is idempotent: signing out twice keeps one row.
func BlacklistToken(ctx context.Context, db *gorm.DB, jti string, expiresAt time.Time) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&authModel.TokenBlacklistModel{
			TokenBlacklistJTI:       jti,
			TokenBlacklistExpiresAt: expiresAt.UTC(),
		}).Error
}

func IsBlacklisted(ctx context.Context, db *gorm.DB, jti string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&authModel.TokenBlacklistModel{}).
		Where("token_blacklist_jti = ?", jti).
		Count(&n).Error
	return n > 0, err
}

// CleanupExpiredBlacklist drops rows whose token can no longer be presented.
func CleanupExpiredBlacklist(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("token_blacklist_expires_at <= ?", now.UTC()).
		Delete(&authModel.TokenBlacklistModel{})
	return res.RowsAffected, res.Error
}
