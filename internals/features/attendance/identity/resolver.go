// Package identity maps an inbound credential to a roster user.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userModel "diemdanh_backend/internals/features/users/user/model"
	userRepo "diemdanh_backend/internals/features/users/user/repository"
	"diemdanh_backend/internals/helpers/nationalid"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserDisabled        = errors.New("user disabled")
	ErrInvalidIdentifier   = errors.New("invalid identifier format")
	ErrAmbiguousIdentifier = errors.New("ambiguous identifier")
	ErrMissingCredential   = errors.New("missing credential")
)

type Resolver struct {
	DB     *gorm.DB
	Hasher nationalid.Hasher
}

func NewResolver(db *gorm.DB, hasher nationalid.Hasher) *Resolver {
	return &Resolver{DB: db, Hasher: hasher}
}

// ResolveByEmail takes an email already verified by the identity provider.
func (r *Resolver) ResolveByEmail(ctx context.Context, email string) (*userModel.UserModel, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingCredential
	}
	users, err := userRepo.FindUsersByEmailLower(ctx, r.DB, email, 2)
	if err != nil {
		return nil, fmt.Errorf("lookup by email: %w", err)
	}
	switch len(users) {
	case 0:
		return nil, ErrUserNotFound
	case 1:
		return active(&users[0])
	default:
		// email_lower is unique; two rows means the index is missing.
		return nil, ErrAmbiguousIdentifier
	}
}

// ResolveByNationalID tries the keyed hash, then the legacy plaintext
// column, then the last-4 suffix when exactly one user carries it.
func (r *Resolver) ResolveByNationalID(ctx context.Context, raw string) (*userModel.UserModel, error) {
	id, ok := nationalid.Normalize(raw)
	if !ok {
		return nil, ErrInvalidIdentifier
	}

	u, err := userRepo.FindUserByNationalIDHash(ctx, r.DB, r.Hasher.Hash(id))
	if err != nil {
		return nil, fmt.Errorf("lookup by national id hash: %w", err)
	}
	if u != nil {
		return active(u)
	}

	u, err = userRepo.FindUserByLegacyNationalID(ctx, r.DB, id)
	if err != nil {
		return nil, fmt.Errorf("lookup by legacy national id: %w", err)
	}
	if u != nil {
		return active(u)
	}

	users, err := userRepo.FindUsersByNationalIDLast4(ctx, r.DB, nationalid.Last4(id), 2)
	if err != nil {
		return nil, fmt.Errorf("lookup by national id suffix: %w", err)
	}
	switch len(users) {
	case 0:
		return nil, ErrUserNotFound
	case 1:
		return active(&users[0])
	default:
		return nil, ErrAmbiguousIdentifier
	}
}

// ResolveByPassword never tells the caller which half of the pair was wrong.
func (r *Resolver) ResolveByPassword(ctx context.Context, username, password string) (*userModel.UserModel, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrMissingCredential
	}
	u, err := userRepo.FindUserByUsernameLower(ctx, r.DB, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup by username: %w", err)
	}
	if u.UserPasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*u.UserPasswordHash), []byte(password)) != nil {
		return nil, ErrUserNotFound
	}
	return active(u)
}

func active(u *userModel.UserModel) (*userModel.UserModel, error) {
	if !u.IsActive() {
		return u, ErrUserDisabled
	}
	return u, nil
}
