// file: internals/features/users/user/service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"diemdanh_backend/internals/features/attendance/ledger"
	"diemdanh_backend/internals/features/users/user/dto"
	userModel "diemdanh_backend/internals/features/users/user/model"
	userRepo "diemdanh_backend/internals/features/users/user/repository"
	"diemdanh_backend/internals/helpers/apperr"
	"diemdanh_backend/internals/helpers/logging"
	"diemdanh_backend/internals/helpers/nationalid"
)

type UserService struct {
	DB     *gorm.DB
	Hasher nationalid.Hasher
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

func NewUserService(db *gorm.DB, hasher nationalid.Hasher) *UserService {
	return &UserService{DB: db, Hasher: hasher, BcryptCost: bcrypt.DefaultCost}
}

/* =========================================================
   CREATE
========================================================= */

func (s *UserService) Create(ctx context.Context, req dto.UserRequest) (*userModel.UserModel, error) {
	if req.Name == nil || *req.Name == "" {
		return nil, apperr.Validation("Họ tên là bắt buộc")
	}
	if req.CCCD == nil || *req.CCCD == "" {
		return nil, apperr.Validation("CCCD là bắt buộc")
	}

	u := &userModel.UserModel{
		UserRole:   userModel.UserRoleAttendee,
		UserStatus: userModel.UserStatusActive,
	}
	if err := s.apply(ctx, u, req); err != nil {
		return nil, err
	}
	if err := userRepo.CreateUser(ctx, s.DB, u); err != nil {
		return nil, writeError(err)
	}
	logging.Ctx(ctx).Info().Str("user_id", u.UserID.String()).Str("role", string(u.UserRole)).Msg("👤 user created")
	return u, nil
}

/* =========================================================
   UPDATE (partial)
========================================================= */

func (s *UserService) Update(ctx context.Context, id uuid.UUID, req dto.UserRequest) (*userModel.UserModel, error) {
	u, err := userRepo.FindUserByID(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Không tìm thấy người dùng")
		}
		return nil, err
	}
	if req.Name != nil && *req.Name == "" {
		return nil, apperr.Validation("Họ tên là bắt buộc")
	}
	if req.CCCD != nil && *req.CCCD == "" {
		return nil, apperr.Validation("CCCD không thể để trống")
	}
	if err := s.apply(ctx, u, req); err != nil {
		return nil, err
	}
	if err := userRepo.SaveUser(ctx, s.DB, u); err != nil {
		return nil, writeError(err)
	}
	return u, nil
}

/* =========================================================
   DELETE
========================================================= */

// Delete removes the user and their attendance rows. Audit log entries stay.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	var removed int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if removed, err = ledger.DeleteForUser(tx, id); err != nil {
			return err
		}
		ok, err := userRepo.DeleteUser(ctx, tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperr.NotFound("Không tìm thấy người dùng")
	}
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return removed, nil
}

/* =========================================================
   Helpers
========================================================= */

func (s *UserService) apply(ctx context.Context, u *userModel.UserModel, req dto.UserRequest) error {
	if req.Name != nil {
		u.UserName = *req.Name
	}
	if req.Role != nil && *req.Role != "" {
		u.UserRole = userModel.UserRole(*req.Role)
	}
	if req.Status != nil && *req.Status != "" {
		u.UserStatus = userModel.UserStatus(*req.Status)
	}
	if req.Group != nil {
		u.UserGroup = nil
		if *req.Group != "" {
			g := *req.Group
			u.UserGroup = &g
		}
	}

	if req.Email != nil {
		email, lower, err := s.uniqueLower(ctx, "user_email_lower", *req.Email, u.UserID, "Email đã được sử dụng")
		if err != nil {
			return err
		}
		u.UserEmail, u.UserEmailLower = email, lower
	}
	if req.Username != nil {
		name, lower, err := s.uniqueLower(ctx, "user_username_lower", *req.Username, u.UserID, "Tên đăng nhập đã được sử dụng")
		if err != nil {
			return err
		}
		u.UserUsername, u.UserUsernameLower = name, lower
	}
	if req.Password != nil {
		u.UserPasswordHash = nil
		if *req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.cost())
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			h := string(hash)
			u.UserPasswordHash = &h
		}
	}

	if req.CCCD != nil {
		id, ok := nationalid.Normalize(*req.CCCD)
		if !ok {
			return apperr.Validation("CCCD phải gồm đúng 12 chữ số")
		}
		hash := s.Hasher.Hash(id)
		taken, err := userRepo.ExistsOther(ctx, s.DB, "user_national_id_hash", hash, u.UserID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("CCCD đã được đăng ký")
		}
		u.UserNationalIDHash = hash
		u.UserNationalIDLast4 = nationalid.Last4(id)
		u.UserNationalIDLegacy = nil
	}
	return nil
}

// uniqueLower returns (nil, nil) for an empty value, otherwise the value and its
// lowercase projection after checking that no other user owns it.
func (s *UserService) uniqueLower(ctx context.Context, column, value string, self uuid.UUID, conflictMsg string) (*string, *string, error) {
	if value == "" {
		return nil, nil, nil
	}
	lower := strings.ToLower(value)
	taken, err := userRepo.ExistsOther(ctx, s.DB, column, lower, self)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, apperr.Conflict(conflictMsg)
	}
	return &value, &lower, nil
}

func (s *UserService) cost() int {
	if s.BcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.BcryptCost
}

func writeError(err error) error {
	if apperr.IsDuplicateKey(err) {
		return apperr.Conflict("Thông tin người dùng bị trùng")
	}
	return err
}
