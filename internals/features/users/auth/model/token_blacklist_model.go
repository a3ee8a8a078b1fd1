package model

import (
	"time"
)

// TokenBlacklistModel marks a signed-out access token by its jti until it expires.
type TokenBlacklistModel struct {
	TokenBlacklistJTI       string    `gorm:"type:varchar(64);primaryKey;column:token_blacklist_jti" json:"jti"`
	TokenBlacklistExpiresAt time.Time `gorm:"not null;index:idx_token_blacklist_expires_at;column:token_blacklist_expires_at" json:"expiresAt"`
	TokenBlacklistCreatedAt time.Time `gorm:"column:token_blacklist_created_at;autoCreateTime" json:"createdAt"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (TokenBlacklistModel) TableName() string {
	return "token_blacklist"
}
