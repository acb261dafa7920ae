package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/Strob0t/schoolforge/internal/domain/profile"
)

func (s *Store) CreateStudent(ctx context.Context, p *profile.Student) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	stampNow(&p.CreatedAt)

	_, err := s.db.Exec(ctx, `
		INSERT INTO students (id, user_id, school_id, admission_no, roll_no, class_id, section_id,
		                      date_of_birth, gender, blood_group, address, photo, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.UserID, p.SchoolID, p.AdmissionNo, p.RollNo, p.ClassID, p.SectionID,
		p.DateOfBirth, p.Gender, p.BloodGroup, p.Address, p.Photo, p.IsActive, p.CreatedAt,
	)
	if err != nil {
		return conflictWrap(err, "create student profile")
	}
	return nil
}

func (s *Store) CreateTeacher(ctx context.Context, p *profile.Teacher) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	stampNow(&p.CreatedAt)

	_, err := s.db.Exec(ctx, `
		INSERT INTO teachers (id, user_id, school_id, employee_id, phone, joining_date, date_of_birth,
		                      gender, address, photo, qualification, designation, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.UserID, p.SchoolID, p.EmployeeID, p.Phone, p.JoiningDate, p.DateOfBirth,
		p.Gender, p.Address, p.Photo, p.Qualification, p.Designation, p.IsActive, p.CreatedAt,
	)
	if err != nil {
		return conflictWrap(err, "create teacher profile")
	}
	return nil
}

func (s *Store) CreateStaff(ctx context.Context, p *profile.Staff) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	stampNow(&p.CreatedAt)

	_, err := s.db.Exec(ctx, `
		INSERT INTO staff (id, user_id, school_id, employee_id, phone, designation, joining_date, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.UserID, p.SchoolID, p.EmployeeID, p.Phone, p.Designation, p.JoiningDate, p.IsActive, p.CreatedAt,
	)
	if err != nil {
		return conflictWrap(err, "create staff profile")
	}
	return nil
}

func (s *Store) CreateParent(ctx context.Context, p *profile.Parent) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	stampNow(&p.CreatedAt)

	_, err := s.db.Exec(ctx, `
		INSERT INTO parents (id, user_id, school_id, phone, occupation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.UserID, p.SchoolID, p.Phone, p.Occupation, p.CreatedAt,
	)
	if err != nil {
		return conflictWrap(err, "create parent profile")
	}
	return nil
}
