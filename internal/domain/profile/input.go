package profile

import (
	"strings"

	"github.com/Strob0t/schoolforge/internal/domain"
)

// AccountInput holds the login fields shared by every seed input.
type AccountInput struct {
	Email    string `json:"email" yaml:"email" validate:"required,email"`
	Password string `json:"password" yaml:"password" validate:"required"` //nolint:gosec // request field
	Name     string `json:"name" yaml:"name" validate:"required"`
}

// Normalize trims and lower-cases the email and trims the name so format
// validation sees the stored form.
func (a *AccountInput) Normalize() {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.Name = strings.TrimSpace(a.Name)
}

// StudentInput seeds a STUDENT account and its profile.
type StudentInput struct {
	AccountInput `yaml:",inline"`
	SchoolID     string      `json:"schoolId" yaml:"schoolId" validate:"required"`
	AdmissionNo  string      `json:"admissionNo" yaml:"admissionNo" validate:"required"`
	ClassID      string      `json:"classId" yaml:"classId" validate:"required"`
	DateOfBirth  domain.Date `json:"dateOfBirth" yaml:"dateOfBirth" validate:"required"`
	Gender       string      `json:"gender" yaml:"gender" validate:"required"`
	RollNo       *string     `json:"rollNo,omitempty" yaml:"rollNo"`
	SectionID    *string     `json:"sectionId,omitempty" yaml:"sectionId"`
	BloodGroup   *string     `json:"bloodGroup,omitempty" yaml:"bloodGroup"`
	Address      *string     `json:"address,omitempty" yaml:"address"`
	Photo        *string     `json:"photo,omitempty" yaml:"photo"`
	IsActive     *bool       `json:"isActive,omitempty" yaml:"isActive"`
}

// TeacherInput seeds a TEACHER account and its profile.
type TeacherInput struct {
	AccountInput  `yaml:",inline"`
	SchoolID      string       `json:"schoolId" yaml:"schoolId" validate:"required"`
	EmployeeID    string       `json:"employeeId" yaml:"employeeId" validate:"required"`
	Phone         string       `json:"phone" yaml:"phone" validate:"required"`
	JoiningDate   domain.Date  `json:"joiningDate" yaml:"joiningDate" validate:"required"`
	DateOfBirth   *domain.Date `json:"dateOfBirth,omitempty" yaml:"dateOfBirth"`
	Gender        *string      `json:"gender,omitempty" yaml:"gender"`
	Address       *string      `json:"address,omitempty" yaml:"address"`
	Photo         *string      `json:"photo,omitempty" yaml:"photo"`
	Qualification *string      `json:"qualification,omitempty" yaml:"qualification"`
	Designation   *string      `json:"designation,omitempty" yaml:"designation"`
	IsActive      *bool        `json:"isActive,omitempty" yaml:"isActive"`
}

// StaffInput seeds a STAFF account and its profile.
type StaffInput struct {
	AccountInput `yaml:",inline"`
	SchoolID     string      `json:"schoolId" yaml:"schoolId" validate:"required"`
	EmployeeID   string      `json:"employeeId" yaml:"employeeId" validate:"required"`
	Phone        string      `json:"phone" yaml:"phone" validate:"required"`
	Designation  string      `json:"designation" yaml:"designation" validate:"required"`
	JoiningDate  domain.Date `json:"joiningDate" yaml:"joiningDate" validate:"required"`
	IsActive     *bool       `json:"isActive,omitempty" yaml:"isActive"`
}

// ParentInput seeds a PARENT account and its profile.
type ParentInput struct {
	AccountInput `yaml:",inline"`
	Phone        string  `json:"phone" yaml:"phone" validate:"required"`
	SchoolID     *string `json:"schoolId,omitempty" yaml:"schoolId"`
	Occupation   *string `json:"occupation,omitempty" yaml:"occupation"`
}

// SchoolAdminInput seeds a SCHOOL_ADMIN account. There is no profile.
type SchoolAdminInput struct {
	AccountInput `yaml:",inline"`
	SchoolID     string `json:"schoolId" yaml:"schoolId" validate:"required"`
	IsActive     *bool  `json:"isActive,omitempty" yaml:"isActive"`
}

// SuperAdminInput seeds a SUPER_ADMIN account. It never references a school.
type SuperAdminInput struct {
	AccountInput `yaml:",inline"`
}
