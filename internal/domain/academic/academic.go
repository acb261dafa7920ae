// Package academic defines tenant-scoped academic years.
package academic

import (
	"time"

	"github.com/Strob0t/schoolforge/internal/domain"
)

// Year is an academic year of one school. At most one year per school is current.
type Year struct {
	ID              string      `json:"id"`
	SchoolID        string      `json:"schoolId"`
	Name            string      `json:"name"`
	StartDate       domain.Date `json:"startDate"`
	EndDate         domain.Date `json:"endDate"`
	IsCurrent       bool        `json:"isCurrent"`
	IsSetupComplete bool        `json:"isSetupComplete"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// CreateRequest holds the fields of the academic-year setup step.
type CreateRequest struct {
	Name      string      `json:"name" validate:"required"`
	StartDate domain.Date `json:"startDate" validate:"required"`
	EndDate   domain.Date `json:"endDate" validate:"required"`
}
