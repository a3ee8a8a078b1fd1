package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleManager  UserRole = "manager"
	UserRoleAttendee UserRole = "attendee"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// UserModel is one row of the roster. The national ID is stored only as a
// keyed hash plus its last four digits.
type UserModel struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"id"`

	UserName string `gorm:"type:varchar(120);not null;column:user_name" json:"name"`

	UserEmail      *string `gorm:"type:varchar(255);column:user_email" json:"email"`
	UserEmailLower *string `gorm:"type:varchar(255);uniqueIndex:uq_users_email_lower;column:user_email_lower" json:"-"`

	UserUsername      *string `gorm:"type:varchar(60);column:user_username" json:"username"`
	UserUsernameLower *string `gorm:"type:varchar(60);uniqueIndex:uq_users_username_lower;column:user_username_lower" json:"-"`
	UserPasswordHash  *string `gorm:"type:varchar(100);column:user_password_hash" json:"-"`

	UserRole  UserRole `gorm:"type:varchar(16);not null;default:attendee;column:user_role" json:"role"`
	UserGroup *string  `gorm:"type:varchar(120);column:user_group" json:"group"`

	UserNationalIDHash   string  `gorm:"type:char(64);not null;uniqueIndex:uq_users_national_id_hash;column:user_national_id_hash" json:"-"`
	UserNationalIDLast4  string  `gorm:"type:char(4);not null;index:idx_users_national_id_last4;column:user_national_id_last4" json:"cccdLast4"`
	UserNationalIDLegacy *string `gorm:"type:varchar(20);index:idx_users_national_id_legacy;column:user_national_id_legacy" json:"-"`

	UserStatus UserStatus `gorm:"type:varchar(16);not null;default:active;column:user_status" json:"status"`

	UserCreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"createdAt"`
	UserUpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"updatedAt"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

func (u *UserModel) IsActive() bool { return u.UserStatus != UserStatusDisabled }

func (u *UserModel) IsStaff() bool {
	return u.UserRole == UserRoleAdmin || u.UserRole == UserRoleManager
}

// GroupLabel trims the group, empty when unset.
func (u *UserModel) GroupLabel() string {
	if u.UserGroup == nil {
		return ""
	}
	return strings.TrimSpace(*u.UserGroup)
}
