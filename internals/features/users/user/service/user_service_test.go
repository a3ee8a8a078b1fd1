package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"diemdanh_backend/internals/databases/dbtest"
	"diemdanh_backend/internals/features/attendance/identity"
	"diemdanh_backend/internals/features/attendance/ledger"
	"diemdanh_backend/internals/features/users/user/dto"
	userModel "diemdanh_backend/internals/features/users/user/model"
	"diemdanh_backend/internals/helpers/apperr"
	"diemdanh_backend/internals/helpers/nationalid"
)

var hasher = nationalid.NewHasher("user-test-pepper")

func str(s string) *string { return &s }

func newService(t *testing.T) *UserService {
	t.Helper()
	s := NewUserService(dbtest.Open(t), hasher)
	s.BcryptCost = bcrypt.MinCost
	return s
}

func TestCreateUserStoresOnlyHash(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	u, err := s.Create(ctx, dto.UserRequest{
		Name:     str("Trần Thị B"),
		Email:    str("B.Tran@Example.com"),
		Username: str("BTran"),
		Password: str("secret123"),
		Group:    str("Lớp A"),
		CCCD:     str("079201001234"),
	})
	require.NoError(t, err)

	assert.Equal(t, userModel.UserRoleAttendee, u.UserRole)
	assert.Equal(t, userModel.UserStatusActive, u.UserStatus)
	assert.Equal(t, "b.tran@example.com", *u.UserEmailLower)
	assert.Equal(t, "btran", *u.UserUsernameLower)
	assert.Equal(t, "1234", u.UserNationalIDLast4)
	assert.Equal(t, hasher.Hash("079201001234"), u.UserNationalIDHash)
	require.NotNil(t, u.UserPasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*u.UserPasswordHash), []byte("secret123")))

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "079201001234")
	assert.NotContains(t, string(b), u.UserNationalIDHash)
	assert.NotContains(t, string(b), *u.UserPasswordHash)

	got, err := identity.NewResolver(s.DB, hasher).ResolveByNationalID(ctx, "079201001234")
	require.NoError(t, err)
	assert.Equal(t, u.UserID, got.UserID)
}

func TestCreateUserValidation(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, dto.UserRequest{CCCD: str("079201001234")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.Create(ctx, dto.UserRequest{Name: str("A")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.Create(ctx, dto.UserRequest{Name: str("A"), CCCD: str("12345")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateUserUniqueness(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, dto.UserRequest{
		Name: str("A"), Email: str("a@example.com"), Username: str("anguyen"), CCCD: str("111111111111"),
	})
	require.NoError(t, err)

	cases := map[string]dto.UserRequest{
		"email":    {Name: str("B"), Email: str("A@EXAMPLE.COM"), CCCD: str("222222222222")},
		"username": {Name: str("B"), Username: str("ANguyen"), CCCD: str("333333333333")},
		"cccd":     {Name: str("B"), CCCD: str("111111111111")},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Create(ctx, req)
			assert.ErrorIs(t, err, apperr.ErrConflict)
		})
	}
}

func TestUpdateUserIsPartial(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	u, err := s.Create(ctx, dto.UserRequest{
		Name: str("A"), Email: str("a@example.com"), Group: str("Lớp A"), CCCD: str("111111111111"),
	})
	require.NoError(t, err)

	upd, err := s.Update(ctx, u.UserID, dto.UserRequest{
		Group:  str(""),
		Role:   str("manager"),
		Status: str("disabled"),
		Email:  str("a@example.com"),
	})
	require.NoError(t, err)
	assert.Nil(t, upd.UserGroup)
	assert.Equal(t, userModel.UserRoleManager, upd.UserRole)
	assert.Equal(t, userModel.UserStatusDisabled, upd.UserStatus)
	assert.Equal(t, "A", upd.UserName)
	assert.Equal(t, u.UserNationalIDHash, upd.UserNationalIDHash)

	upd, err = s.Update(ctx, u.UserID, dto.UserRequest{CCCD: str("999999999999")})
	require.NoError(t, err)
	assert.Equal(t, "9999", upd.UserNationalIDLast4)

	_, err = s.Update(ctx, u.UserID, dto.UserRequest{CCCD: str("")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.Update(ctx, uuid.New(), dto.UserRequest{Name: str("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteUserRemovesAttendances(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	u, err := s.Create(ctx, dto.UserRequest{Name: str("A"), CCCD: str("111111111111")})
	require.NoError(t, err)
	l := ledger.New(s.DB)
	_, err = l.RecordCheckin(ctx, nil, uuid.New(), u.UserID, uuid.Nil, time.Now())
	require.NoError(t, err)

	removed, err := s.Delete(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	rows, err := l.ListForUser(ctx, u.UserID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = s.Delete(ctx, u.UserID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
