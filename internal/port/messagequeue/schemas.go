package messagequeue

import "time"

// SchoolProvisionedPayload is the schema for schools.provisioned messages.
// It never carries the temporary admin password.
type SchoolProvisionedPayload struct {
	SchoolID    string     `json:"school_id" validate:"required"`
	Slug        string     `json:"slug" validate:"required"`
	Name        string     `json:"name"`
	Plan        string     `json:"plan" validate:"required"`
	Status      string     `json:"status"`
	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
	AdminEmail  string     `json:"admin_email" validate:"required"`
}

// AccountCreatedPayload is the schema for accounts.created messages.
type AccountCreatedPayload struct {
	UserID   string `json:"user_id" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Role     string `json:"role" validate:"required"`
	SchoolID string `json:"school_id,omitempty"`
}

// SetupCompletedPayload is the schema for schools.setup_completed messages.
type SetupCompletedPayload struct {
	SchoolID     string `json:"school_id" validate:"required"`
	YearsUpdated int64  `json:"years_updated"`
}
