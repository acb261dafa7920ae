package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/schoolforge/internal/domain"
	"github.com/Strob0t/schoolforge/internal/domain/user"
)

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	stampNow(&u.CreatedAt)
	u.UpdatedAt = u.CreatedAt

	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, school_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.SchoolID, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if c, ok := uniqueConstraint(err); ok && c == constraintUserEmail {
			return &domain.DuplicateIdentityError{Email: u.Email}
		}
		return conflictWrap(err, "create user %s", u.Email)
	}
	return nil
}

// GetUserByEmail returns the account with the given normalized email,
// including the slug of its school when it has one.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT u.id, u.email, u.name, u.password_hash, u.role, u.school_id, COALESCE(sc.slug, ''),
		       u.is_active, u.last_login_at, u.created_at, u.updated_at
		FROM users u
		LEFT JOIN schools sc ON sc.id = u.school_id
		WHERE u.email = $1`, email)

	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundWrap(err, "get user by email %s", email)
	}
	return &u, nil
}

func (s *Store) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	return execExpectOne(tag, err, "touch last login %s", id)
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	return execExpectOne(tag, err, "update password %s", id)
}

func scanUser(row scannable) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.SchoolID, &u.SchoolSlug,
		&u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
