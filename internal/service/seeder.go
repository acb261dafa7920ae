package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	sfotel "github.com/Strob0t/schoolforge/internal/adapter/otel"
	"github.com/Strob0t/schoolforge/internal/domain/profile"
	"github.com/Strob0t/schoolforge/internal/domain/user"
	"github.com/Strob0t/schoolforge/internal/port/database"
	"github.com/Strob0t/schoolforge/internal/port/messagequeue"
)

// Result is the outcome of a seeder. Only the profile matching the seeded
// role is set; school and super admins carry none.
type Result struct {
	Account *user.User       `json:"user"`
	Student *profile.Student `json:"student,omitempty"`
	Teacher *profile.Teacher `json:"teacher,omitempty"`
	Staff   *profile.Staff   `json:"staff,omitempty"`
	Parent  *profile.Parent  `json:"parent,omitempty"`
}

// Profile returns whichever profile was created, or nil.
func (r *Result) Profile() any {
	switch {
	case r.Student != nil:
		return r.Student
	case r.Teacher != nil:
		return r.Teacher
	case r.Staff != nil:
		return r.Staff
	case r.Parent != nil:
		return r.Parent
	}
	return nil
}

// Seeder creates an account plus its role profile in one transaction.
type Seeder struct {
	store    database.Store
	identity *IdentityFactory
	queue    messagequeue.Queue
	metrics  *sfotel.Metrics
}

// NewSeeder creates a Seeder. queue and metrics may be nil.
func NewSeeder(store database.Store, identity *IdentityFactory, queue messagequeue.Queue, metrics *sfotel.Metrics) *Seeder {
	return &Seeder{store: store, identity: identity, queue: queue, metrics: metrics}
}

// attachFunc creates the role profile for a freshly created account.
type attachFunc func(ctx context.Context, tx database.Store, acct *user.User, res *Result) error

// seed validates input, then creates the account and runs attach inside one
// transaction. Every failure is wrapped with the role.
func (s *Seeder) seed(ctx context.Context, role user.Role, input any, req user.CreateRequest, attach attachFunc) (*Result, error) {
	ctx, span := sfotel.StartSeedSpan(ctx, string(role))
	res, err := s.seedTx(ctx, role, input, req, attach)
	sfotel.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("failed to seed %s: %w", roleLabel(role), err)
	}

	s.metrics.RecordAccountCreated(ctx, string(role))
	publishEvent(ctx, s.queue, messagequeue.SubjectAccountCreated,
		accountCreatedPayload(res.Account.ID, res.Account.Email, string(role), res.Account.SchoolID))
	slog.InfoContext(ctx, "account seeded", "user_id", res.Account.ID, "role", role)
	return res, nil
}

func (s *Seeder) seedTx(ctx context.Context, role user.Role, input any, req user.CreateRequest, attach attachFunc) (*Result, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	req.Role = role

	var res *Result
	err := s.store.InTx(ctx, func(tx database.Store) error {
		acct, err := s.identity.CreateAccount(ctx, tx, req)
		if err != nil {
			return err
		}
		r := &Result{Account: acct}
		if attach != nil {
			if err := attach(ctx, tx, acct, r); err != nil {
				return err
			}
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SeedStudent creates a STUDENT account and its student profile. IsActive only
// applies to the profile; the account itself is always active.
func (s *Seeder) SeedStudent(ctx context.Context, in profile.StudentInput) (*Result, error) {
	in.Normalize()
	return s.seed(ctx, user.RoleStudent, in, accountRequest(in.AccountInput, &in.SchoolID, nil),
		func(ctx context.Context, tx database.Store, acct *user.User, res *Result) error {
			p := &profile.Student{
				ID:          uuid.NewString(),
				UserID:      acct.ID,
				SchoolID:    in.SchoolID,
				AdmissionNo: strings.TrimSpace(in.AdmissionNo),
				RollNo:      in.RollNo,
				ClassID:     in.ClassID,
				SectionID:   in.SectionID,
				DateOfBirth: in.DateOfBirth.Time,
				Gender:      in.Gender,
				BloodGroup:  in.BloodGroup,
				Address:     in.Address,
				Photo:       in.Photo,
				IsActive:    boolOr(in.IsActive, true),
			}
			if err := tx.CreateStudent(ctx, p); err != nil {
				return err
			}
			res.Student = p
			return nil
		})
}

// SeedTeacher creates a TEACHER account and its teacher profile.
func (s *Seeder) SeedTeacher(ctx context.Context, in profile.TeacherInput) (*Result, error) {
	in.Normalize()
	return s.seed(ctx, user.RoleTeacher, in, accountRequest(in.AccountInput, &in.SchoolID, nil),
		func(ctx context.Context, tx database.Store, acct *user.User, res *Result) error {
			var dob *time.Time
			if in.DateOfBirth != nil && !in.DateOfBirth.IsZero() {
				t := in.DateOfBirth.Time
				dob = &t
			}
			p := &profile.Teacher{
				ID:            uuid.NewString(),
				UserID:        acct.ID,
				SchoolID:      in.SchoolID,
				EmployeeID:    strings.TrimSpace(in.EmployeeID),
				Phone:         in.Phone,
				JoiningDate:   in.JoiningDate.Time,
				DateOfBirth:   dob,
				Gender:        in.Gender,
				Address:       in.Address,
				Photo:         in.Photo,
				Qualification: in.Qualification,
				Designation:   in.Designation,
				IsActive:      boolOr(in.IsActive, true),
			}
			if err := tx.CreateTeacher(ctx, p); err != nil {
				return err
			}
			res.Teacher = p
			return nil
		})
}

// SeedStaff creates a STAFF account and its staff profile.
func (s *Seeder) SeedStaff(ctx context.Context, in profile.StaffInput) (*Result, error) {
	in.Normalize()
	return s.seed(ctx, user.RoleStaff, in, accountRequest(in.AccountInput, &in.SchoolID, nil),
		func(ctx context.Context, tx database.Store, acct *user.User, res *Result) error {
			p := &profile.Staff{
				ID:          uuid.NewString(),
				UserID:      acct.ID,
				SchoolID:    in.SchoolID,
				EmployeeID:  strings.TrimSpace(in.EmployeeID),
				Phone:       in.Phone,
				Designation: in.Designation,
				JoiningDate: in.JoiningDate.Time,
				IsActive:    boolOr(in.IsActive, true),
			}
			if err := tx.CreateStaff(ctx, p); err != nil {
				return err
			}
			res.Staff = p
			return nil
		})
}

// SeedParent creates a PARENT account and its parent profile. The school is optional.
func (s *Seeder) SeedParent(ctx context.Context, in profile.ParentInput) (*Result, error) {
	in.Normalize()
	schoolID := in.SchoolID
	if schoolID != nil && *schoolID == "" {
		schoolID = nil
	}
	return s.seed(ctx, user.RoleParent, in, accountRequest(in.AccountInput, schoolID, nil),
		func(ctx context.Context, tx database.Store, acct *user.User, res *Result) error {
			p := &profile.Parent{
				ID:         uuid.NewString(),
				UserID:     acct.ID,
				SchoolID:   schoolID,
				Phone:      in.Phone,
				Occupation: in.Occupation,
			}
			if err := tx.CreateParent(ctx, p); err != nil {
				return err
			}
			res.Parent = p
			return nil
		})
}

// SeedSchoolAdmin creates a SCHOOL_ADMIN account bound to a school.
func (s *Seeder) SeedSchoolAdmin(ctx context.Context, in profile.SchoolAdminInput) (*Result, error) {
	in.Normalize()
	return s.seed(ctx, user.RoleSchoolAdmin, in, accountRequest(in.AccountInput, &in.SchoolID, in.IsActive), nil)
}

// SeedSuperAdmin creates a SUPER_ADMIN account. It never references a school.
func (s *Seeder) SeedSuperAdmin(ctx context.Context, in profile.SuperAdminInput) (*Result, error) {
	in.Normalize()
	return s.seed(ctx, user.RoleSuperAdmin, in, accountRequest(in.AccountInput, nil, nil), nil)
}

func accountRequest(in profile.AccountInput, schoolID *string, active *bool) user.CreateRequest {
	return user.CreateRequest{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
		SchoolID: schoolID,
		IsActive: active,
	}
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// roleLabel renders a role for error messages, e.g. SCHOOL_ADMIN as "school admin".
func roleLabel(r user.Role) string {
	return strings.ToLower(strings.ReplaceAll(string(r), "_", " "))
}
