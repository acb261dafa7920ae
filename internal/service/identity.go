package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Strob0t/schoolforge/internal/domain"
	"github.com/Strob0t/schoolforge/internal/domain/user"
	"github.com/Strob0t/schoolforge/internal/password"
	"github.com/Strob0t/schoolforge/internal/port/database"
)

// IdentityFactory creates base account records. It never creates profiles.
type IdentityFactory struct {
	hasher *password.Hasher
}

// NewIdentityFactory creates an IdentityFactory hashing with hasher.
func NewIdentityFactory(hasher *password.Hasher) *IdentityFactory {
	return &IdentityFactory{hasher: hasher}
}

type createOptions struct {
	skipHash bool
}

// CreateOption customizes CreateAccount.
type CreateOption func(*createOptions)

// SkipHash stores the request password as an already computed hash.
func SkipHash() CreateOption {
	return func(o *createOptions) { o.skipHash = true }
}

// CreateAccount validates req and persists exactly one account through store,
// which may be bound to a transaction.
//
// A taken email returns *domain.DuplicateIdentityError unchanged. Any other
// storage failure wraps domain.ErrCreationFailed.
func (f *IdentityFactory) CreateAccount(ctx context.Context, store database.Store, req user.CreateRequest, opts ...CreateOption) (*user.User, error) {
	var o createOptions
	for _, opt := range opts {
		opt(&o)
	}

	req.Email = user.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := checkTenantBinding(req.Role, req.SchoolID); err != nil {
		return nil, err
	}

	hash := req.Password
	if !o.skipHash {
		if len(req.Password) > password.MaxLength {
			return nil, domain.NewValidationError("password")
		}
		var err error
		if hash, err = f.hasher.Hash(req.Password); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		SchoolID:     req.SchoolID,
		IsActive:     active,
	}
	if err := store.CreateUser(ctx, u); err != nil {
		var dup *domain.DuplicateIdentityError
		if errors.As(err, &dup) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w: %w", domain.ErrCreationFailed, err)
	}
	return u, nil
}

// checkTenantBinding enforces that super admins have no school and that every
// role other than super admin and parent has one.
func checkTenantBinding(role user.Role, schoolID *string) error {
	if !role.Valid() {
		return domain.NewValidationError("role")
	}
	hasSchool := schoolID != nil && *schoolID != ""
	switch {
	case role == user.RoleSuperAdmin && schoolID != nil:
		return domain.NewValidationError("schoolId")
	case role.RequiresSchool() && !hasSchool:
		return domain.NewValidationError("schoolId")
	}
	return nil
}
