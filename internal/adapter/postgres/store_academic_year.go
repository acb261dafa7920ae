package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Strob0t/schoolforge/internal/domain/academic"
)

// ClearCurrentAcademicYears unsets the current flag on every year of the school.
func (s *Store) ClearCurrentAcademicYears(ctx context.Context, schoolID string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE academic_years SET is_current = FALSE WHERE school_id = $1 AND is_current`, schoolID)
	if err != nil {
		return fmt.Errorf("clear current academic years %s: %w", schoolID, err)
	}
	return nil
}

func (s *Store) CreateAcademicYear(ctx context.Context, y *academic.Year) error {
	if y.ID == "" {
		y.ID = uuid.NewString()
	}
	stampNow(&y.CreatedAt)

	_, err := s.db.Exec(ctx, `
		INSERT INTO academic_years (id, school_id, name, start_date, end_date, is_current, is_setup_complete, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		y.ID, y.SchoolID, y.Name, y.StartDate.Time, y.EndDate.Time, y.IsCurrent, y.IsSetupComplete, y.CreatedAt,
	)
	if err != nil {
		return conflictWrap(err, "create academic year %s", y.Name)
	}
	return nil
}

// MarkCurrentYearsSetupComplete flags the school's current years as set up
// and returns how many rows changed.
func (s *Store) MarkCurrentYearsSetupComplete(ctx context.Context, schoolID string) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE academic_years SET is_setup_complete = TRUE WHERE school_id = $1 AND is_current`, schoolID)
	if err != nil {
		return 0, fmt.Errorf("mark academic years setup complete %s: %w", schoolID, err)
	}
	return tag.RowsAffected(), nil
}
