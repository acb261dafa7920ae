// Package profile defines the role-specific records attached one-to-one to accounts.
package profile

import "time"

// Student is the profile of a STUDENT account.
type Student struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SchoolID    string    `json:"schoolId"`
	AdmissionNo string    `json:"admissionNo"`
	RollNo      *string   `json:"rollNo"`
	ClassID     string    `json:"classId"`
	SectionID   *string   `json:"sectionId"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Gender      string    `json:"gender"`
	BloodGroup  *string   `json:"bloodGroup"`
	Address     *string   `json:"address"`
	Photo       *string   `json:"photo"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Teacher is the profile of a TEACHER account.
type Teacher struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	SchoolID      string     `json:"schoolId"`
	EmployeeID    string     `json:"employeeId"`
	Phone         string     `json:"phone"`
	JoiningDate   time.Time  `json:"joiningDate"`
	DateOfBirth   *time.Time `json:"dateOfBirth"`
	Gender        *string    `json:"gender"`
	Address       *string    `json:"address"`
	Photo         *string    `json:"photo"`
	Qualification *string    `json:"qualification"`
	Designation   *string    `json:"designation"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Staff is the profile of a STAFF account.
type Staff struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SchoolID    string    `json:"schoolId"`
	EmployeeID  string    `json:"employeeId"`
	Phone       string    `json:"phone"`
	Designation string    `json:"designation"`
	JoiningDate time.Time `json:"joiningDate"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Parent is the profile of a PARENT account. The school is optional.
type Parent struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	SchoolID   *string   `json:"schoolId"`
	Phone      string    `json:"phone"`
	Occupation *string   `json:"occupation"`
	CreatedAt  time.Time `json:"createdAt"`
}
