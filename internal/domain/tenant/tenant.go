// Package tenant defines schools (tenants) and their subscription plans.
package tenant

import (
	"fmt"
	"strings"
	"time"

	"github.com/Strob0t/schoolforge/internal/domain"
)

// Status is the subscription state of a school.
type Status string

const (
	StatusTrial  Status = "trial"
	StatusActive Status = "active"
)

// Tenant is one school sharing the platform. Slug is unique.
type Tenant struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Type          string     `json:"type"`
	Country       string     `json:"country"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Address       string     `json:"address,omitempty"`
	PrincipalName string     `json:"principalName,omitempty"`
	PlanID        string     `json:"planId"`
	Plan          *Plan      `json:"plan,omitempty"`
	Status        Status     `json:"status"`
	TrialEndsAt   *time.Time `json:"trialEndsAt"`
	SetupComplete bool       `json:"setupComplete"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Counts holds per-school record totals shown in the provisioning listing.
type Counts struct {
	Users    int `json:"users"`
	Students int `json:"students"`
	Teachers int `json:"teachers"`
}

// Summary is a school with its plan and record counts.
type Summary struct {
	Tenant
	Counts Counts `json:"counts"`
}

// ProvisionRequest is the input for creating a school and its first admin.
type ProvisionRequest struct {
	Name       string `json:"name" validate:"required"`
	Type       string `json:"type" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	AdminName  string `json:"adminName" validate:"required"`
	AdminEmail string `json:"adminEmail" validate:"required,email"`
	PlanKey    string `json:"planId"`
}

// Credentials are the one-time login details of a provisioned admin.
// The password is shown once and never stored in plaintext.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // one-time response field
}

// ProvisionResult is returned after a school has been provisioned.
type ProvisionResult struct {
	School      Tenant      `json:"school"`
	Credentials Credentials `json:"credentials"`
}

// ProfileRequest holds the fields of the school-profile setup step.
type ProfileRequest struct {
	Address       string `json:"address" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	PrincipalName string `json:"principalName" validate:"required"`
}

// Slugify derives a URL slug: lower-case, runs of characters outside
// [a-z0-9] become "-", and leading or trailing dashes are dropped.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// ErrSlugTaken reports that another school already uses the slug.
var ErrSlugTaken = fmt.Errorf("school slug taken: %w", domain.ErrConflict)
