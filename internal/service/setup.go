package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	sfotel "github.com/Strob0t/schoolforge/internal/adapter/otel"
	"github.com/Strob0t/schoolforge/internal/domain"
	"github.com/Strob0t/schoolforge/internal/domain/academic"
	"github.com/Strob0t/schoolforge/internal/domain/tenant"
	"github.com/Strob0t/schoolforge/internal/port/database"
	"github.com/Strob0t/schoolforge/internal/port/messagequeue"
)

// SetupService runs the two setup wizard steps of a school.
type SetupService struct {
	store database.Store
	queue messagequeue.Queue
	now   func() time.Time
}

// NewSetupService creates a SetupService. queue may be nil.
func NewSetupService(store database.Store, queue messagequeue.Queue) *SetupService {
	return &SetupService{store: store, queue: queue, now: time.Now}
}

// RecordAcademicYear creates the school's current academic year. Any other
// year of the school loses its current flag in the same transaction.
func (s *SetupService) RecordAcademicYear(ctx context.Context, schoolID string, req academic.CreateRequest) (*academic.Year, error) {
	if schoolID == "" {
		return nil, domain.ErrUnauthorized
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.EndDate.Before(req.StartDate.Time) {
		return nil, domain.NewValidationError("endDate")
	}

	ctx, span := sfotel.StartSetupSpan(ctx, "academic_year", schoolID)
	y := &academic.Year{
		ID:        uuid.NewString(),
		SchoolID:  schoolID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsCurrent: true,
		CreatedAt: s.now().UTC(),
	}
	err := s.store.InTx(ctx, func(tx database.Store) error {
		if err := tx.ClearCurrentAcademicYears(ctx, schoolID); err != nil {
			return err
		}
		return tx.CreateAcademicYear(ctx, y)
	})
	sfotel.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("record academic year: %w", err)
	}

	slog.InfoContext(ctx, "academic year recorded", "school_id", schoolID, "year_id", y.ID)
	return y, nil
}

// CompleteSchoolProfile stores the school's contact details, marks its setup
// complete, and flags its current academic years as set up.
func (s *SetupService) CompleteSchoolProfile(ctx context.Context, schoolID string, req tenant.ProfileRequest) (*tenant.Tenant, error) {
	if schoolID == "" {
		return nil, domain.ErrUnauthorized
	}
	req.Address = strings.TrimSpace(req.Address)
	req.Phone = strings.TrimSpace(req.Phone)
	req.PrincipalName = strings.TrimSpace(req.PrincipalName)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	ctx, span := sfotel.StartSetupSpan(ctx, "school_profile", schoolID)
	var (
		school  *tenant.Tenant
		updated int64
	)
	err := s.store.InTx(ctx, func(tx database.Store) error {
		var err error
		if school, err = tx.UpdateSchoolProfile(ctx, schoolID, req); err != nil {
			return err
		}
		updated, err = tx.MarkCurrentYearsSetupComplete(ctx, schoolID)
		return err
	})
	sfotel.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("complete school profile: %w", err)
	}

	publishEvent(ctx, s.queue, messagequeue.SubjectSetupCompleted, messagequeue.SetupCompletedPayload{
		SchoolID:     schoolID,
		YearsUpdated: updated,
	})
	slog.InfoContext(ctx, "school setup completed", "school_id", schoolID, "years_updated", updated)
	return school, nil
}
