// Package user defines the account model for authentication and authorization.
package user

import (
	"strings"
	"time"
)

// Role is the authorization level of an account.
type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleSchoolAdmin Role = "SCHOOL_ADMIN"
	RoleTeacher     Role = "TEACHER"
	RoleStudent     Role = "STUDENT"
	RoleParent      Role = "PARENT"
	RoleStaff       Role = "STAFF"
)

// ValidRoles is the set of all valid account roles.
var ValidRoles = map[Role]bool{
	RoleSuperAdmin:  true,
	RoleSchoolAdmin: true,
	RoleTeacher:     true,
	RoleStudent:     true,
	RoleParent:      true,
	RoleStaff:       true,
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool { return ValidRoles[r] }

// RequiresSchool reports whether accounts of this role must reference a tenant.
// Parents may exist without one; super admins never have one.
func (r Role) RequiresSchool() bool {
	return r != RoleSuperAdmin && r != RoleParent
}

// User is a stored account. Email is lower-cased and globally unique.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	SchoolID     *string    `json:"schoolId,omitempty"`
	SchoolSlug   string     `json:"schoolSlug,omitempty"` // populated on reads joined with schools
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CreateRequest is the input of the identity factory.
type CreateRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"` //nolint:gosec // request field, not a hardcoded secret
	Name     string  `json:"name" validate:"required"`
	Role     Role    `json:"role" validate:"required"`
	SchoolID *string `json:"schoolId,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// LoginRequest is the input for credential authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"` //nolint:gosec // request field, not a hardcoded secret
}

// LoginResponse is returned after successful authentication.
type LoginResponse struct {
	Token     string    `json:"token"` //nolint:gosec // response field, not a hardcoded secret
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// Session is the identity reconstructed from a session token on each request.
type Session struct {
	UserID     string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	SchoolID   string    `json:"schoolId,omitempty"`
	SchoolSlug string    `json:"schoolSlug,omitempty"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// HasSchool reports whether the session is bound to a tenant.
func (s *Session) HasSchool() bool { return s != nil && s.SchoolID != "" }

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
