// internals/features/users/user/repository/user_repository.go
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "diemdanh_backend/internals/features/users/user/model"
)

/* ====================== READ ====================== */

func FindUserByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*userModel.UserModel, error) {
	var u userModel.UserModel
	if err := db.WithContext(ctx).Where("user_id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUsersByEmailLower returns at most limit users whose email matches case-insensitively.
func FindUsersByEmailLower(ctx context.Context, db *gorm.DB, email string, limit int) ([]userModel.UserModel, error) {
	var out []userModel.UserModel
	err := db.WithContext(ctx).
		Where("user_email_lower = ?", strings.ToLower(strings.TrimSpace(email))).
		Limit(limit).
		Find(&out).Error
	return out, err
}

func FindUserByUsernameLower(ctx context.Context, db *gorm.DB, username string) (*userModel.UserModel, error) {
	var u userModel.UserModel
	err := db.WithContext(ctx).
		Where("user_username_lower = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func FindUserByNationalIDHash(ctx context.Context, db *gorm.DB, hash string) (*userModel.UserModel, error) {
	return firstOrNil(db.WithContext(ctx).Where("user_national_id_hash = ?", hash))
}

func FindUserByLegacyNationalID(ctx context.Context, db *gorm.DB, id string) (*userModel.UserModel, error) {
	return firstOrNil(db.WithContext(ctx).Where("user_national_id_legacy = ?", id))
}

func FindUsersByNationalIDLast4(ctx context.Context, db *gorm.DB, last4 string, limit int) ([]userModel.UserModel, error) {
	var out []userModel.UserModel
	err := db.WithContext(ctx).
		Where("user_national_id_last4 = ?", last4).
		Order("user_id").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListRoster returns every user; the report joins against the whole roster.
func ListRoster(ctx context.Context, db *gorm.DB) ([]userModel.UserModel, error) {
	var out []userModel.UserModel
	err := db.WithContext(ctx).Order("user_name ASC").Find(&out).Error
	return out, err
}

func ListUsers(ctx context.Context, db *gorm.DB, offset, limit int) ([]userModel.UserModel, int64, error) {
	var (
		out   []userModel.UserModel
		total int64
	)
	q := db.WithContext(ctx).Model(&userModel.UserModel{}).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("user_created_at DESC").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

/* ====================== UNIQUENESS ====================== */

// ExistsOther reports whether another user (not self) already owns value in column.
func ExistsOther(ctx context.Context, db *gorm.DB, column, value string, self uuid.UUID) (bool, error) {
	var n int64
	q := db.WithContext(ctx).Model(&userModel.UserModel{}).Where(column+" = ?", value)
	if self != uuid.Nil {
		q = q.Where("user_id <> ?", self)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

/* ====================== WRITE ====================== */

func CreateUser(ctx context.Context, db *gorm.DB, u *userModel.UserModel) error {
	return db.WithContext(ctx).Create(u).Error
}

func SaveUser(ctx context.Context, db *gorm.DB, u *userModel.UserModel) error {
	return db.WithContext(ctx).Save(u).Error
}

func DeleteUser(ctx context.Context, db *gorm.DB, id uuid.UUID) (bool, error) {
	res := db.WithContext(ctx).Where("user_id = ?", id).Delete(&userModel.UserModel{})
	return res.RowsAffected > 0, res.Error
}

func firstOrNil(q *gorm.DB) (*userModel.UserModel, error) {
	var u userModel.UserModel
	if err := q.First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
