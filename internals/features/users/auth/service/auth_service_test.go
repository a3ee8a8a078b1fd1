package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"diemdanh_backend/internals/databases/dbtest"
	"diemdanh_backend/internals/features/attendance/identity"
	"diemdanh_backend/internals/features/users/auth/scheduler"
	userModel "diemdanh_backend/internals/features/users/user/model"
	"diemdanh_backend/internals/helpers/apperr"
	"diemdanh_backend/internals/helpers/nationalid"
)

var hasher = nationalid.NewHasher("auth-test-pepper")

type fakeVerifier map[string]string

func (f fakeVerifier) VerifyEmail(_ context.Context, tok string) (string, error) {
	if email, ok := f[tok]; ok {
		return email, nil
	}
	return "", errors.New("bad token")
}

func mkUser(t *testing.T, db *gorm.DB, cccd, email, username string, role userModel.UserRole, status userModel.UserStatus) *userModel.UserModel {
	t.Helper()
	u := &userModel.UserModel{
		UserName:            "User " + cccd[8:],
		UserRole:            role,
		UserStatus:          status,
		UserNationalIDHash:  hasher.Hash(cccd),
		UserNationalIDLast4: nationalid.Last4(cccd),
	}
	if email != "" {
		u.UserEmail, u.UserEmailLower = &email, &email
	}
	if username != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte("pw-"+username), bcrypt.MinCost)
		require.NoError(t, err)
		h := string(hash)
		lower := strings.ToLower(username)
		u.UserUsername, u.UserUsernameLower, u.UserPasswordHash = &username, &lower, &h
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func newAuth(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	svc := NewAuthService(db, identity.NewResolver(db, hasher),
		fakeVerifier{"g-admin": "admin@example.com", "g-att": "att@example.com", "g-off": "off@example.com"},
		NewTokenIssuer("unit-secret", time.Hour))
	return svc, db
}

func TestLoginOnlyForActiveStaff(t *testing.T) {
	svc, db := newAuth(t)
	ctx := context.Background()
	admin := mkUser(t, db, "111111111111", "admin@example.com", "boss", userModel.UserRoleAdmin, userModel.UserStatusActive)
	mkUser(t, db, "222222222222", "att@example.com", "", userModel.UserRoleAttendee, userModel.UserStatusActive)
	mkUser(t, db, "333333333333", "off@example.com", "", userModel.UserRoleManager, userModel.UserStatusDisabled)

	sess, err := svc.LoginGoogle(ctx, "g-admin")
	require.NoError(t, err)
	assert.Equal(t, admin.UserID, sess.User.UserID)

	claims, err := svc.Tokens.Parse(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.UserID.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	_, err = svc.LoginGoogle(ctx, "g-att")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.LoginGoogle(ctx, "g-off")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.LoginGoogle(ctx, "forged")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.LoginGoogle(ctx, "g-unknown")
	assert.Error(t, err)

	sess, err = svc.LoginPassword(ctx, "BOSS", "pw-boss")
	require.NoError(t, err)
	assert.Equal(t, admin.UserID, sess.User.UserID)

	_, err = svc.LoginPassword(ctx, "boss", "nope")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestTokenRejectsTamperingAndExpiry(t *testing.T) {
	issuer := NewTokenIssuer("unit-secret", time.Minute)
	u := &userModel.UserModel{UserID: uuid.New(), UserName: "A", UserRole: userModel.UserRoleManager}

	tok, exp, err := issuer.Issue(u, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 2*time.Second)

	_, err = NewTokenIssuer("other-secret", time.Minute).Parse(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	old, _, err := issuer.Issue(u, time.Now().Add(-2*time.Minute))
	require.NoError(t, err)
	_, err = issuer.Parse(old)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": u.UserID.String()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Parse(none)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, _, err = TokenIssuer{}.Issue(u, time.Now())
	assert.Error(t, err)
}

func TestParseRejectsAllTokensWithoutSecret(t *testing.T) {
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: uuid.NewString(),
		Role:   string(userModel.UserRoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte{})
	require.NoError(t, err)

	claims, err := NewTokenIssuer("", time.Hour).Parse(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, claims)
}

func TestLogoutRevokesUntilExpiry(t *testing.T) {
	svc, db := newAuth(t)
	ctx := context.Background()
	mkUser(t, db, "111111111111", "admin@example.com", "", userModel.UserRoleAdmin, userModel.UserStatusActive)

	sess, err := svc.LoginGoogle(ctx, "g-admin")
	require.NoError(t, err)
	claims, err := svc.Tokens.Parse(sess.Token)
	require.NoError(t, err)

	revoked, err := svc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Logout(ctx, sess.Token))
	require.NoError(t, svc.Logout(ctx, sess.Token), "second logout is a no-op")
	assert.NoError(t, svc.Logout(ctx, "garbage"))

	revoked, err = svc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	scheduler.RunBlacklistCleanup(ctx, db, time.Now())
	revoked, _ = svc.IsRevoked(ctx, claims.ID)
	assert.True(t, revoked, "not yet expired")

	scheduler.RunBlacklistCleanup(ctx, db, time.Now().Add(2*time.Hour))
	revoked, _ = svc.IsRevoked(ctx, claims.ID)
	assert.False(t, revoked)
}
