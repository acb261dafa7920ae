package service

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/Strob0t/schoolforge/internal/domain"
	"github.com/Strob0t/schoolforge/internal/domain/academic"
	"github.com/Strob0t/schoolforge/internal/domain/tenant"
	"github.com/Strob0t/schoolforge/internal/port/messagequeue"
)

func newSetupFixture(q messagequeue.Queue) (*SetupService, *mockStore) {
	store := newMockStore()
	store.state.schools["school-1"] = testSchool("school-1", "springfield-elementary")
	return NewSetupService(store, q), store
}

func yearRequest(name string) academic.CreateRequest {
	return academic.CreateRequest{
		Name:      name,
		StartDate: date(2025, time.September, 1),
		EndDate:   date(2026, time.June, 30),
	}
}

func validProfile() tenant.ProfileRequest {
	return tenant.ProfileRequest{
		Address:       "19 Plympton Street",
		Phone:         "555-0142",
		PrincipalName: "Seymour Skinner",
	}
}

func TestRecordAcademicYear(t *testing.T) {
	svc, store := newSetupFixture(nil)

	y, err := svc.RecordAcademicYear(context.Background(), "school-1", yearRequest(" 2025/26 "))
	if err != nil {
		t.Fatalf("RecordAcademicYear: %v", err)
	}

	if y.Name != "2025/26" || y.SchoolID != "school-1" {
		t.Errorf("year = %+v", y)
	}
	if !y.IsCurrent || y.IsSetupComplete {
		t.Errorf("new year should be current and not yet set up: %+v", y)
	}
	if n := len(store.yearsOf("school-1")); n != 1 {
		t.Errorf("years = %d, want 1", n)
	}
}

func TestRecordAcademicYear_NewYearReplacesCurrent(t *testing.T) {
	svc, store := newSetupFixture(nil)
	ctx := context.Background()

	first, err := svc.RecordAcademicYear(ctx, "school-1", yearRequest("2025/26"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.RecordAcademicYear(ctx, "school-1", yearRequest("2026/27"))
	if err != nil {
		t.Fatal(err)
	}

	current := 0
	for _, y := range store.yearsOf("school-1") {
		if y.IsCurrent {
			current++
			if y.ID != second.ID {
				t.Errorf("current year = %s, want %s", y.ID, second.ID)
			}
		}
		if y.ID == first.ID && y.IsCurrent {
			t.Error("previous year should no longer be current")
		}
	}
	if current != 1 {
		t.Errorf("current years = %d, want 1", current)
	}
}

func TestRecordAcademicYear_Rejections(t *testing.T) {
	svc, store := newSetupFixture(nil)
	ctx := context.Background()

	if _, err := svc.RecordAcademicYear(ctx, "", yearRequest("2025/26")); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("no school: expected ErrUnauthorized, got %v", err)
	}

	missing := yearRequest("2025/26")
	missing.EndDate = domain.Date{}
	_, err := svc.RecordAcademicYear(ctx, "school-1", missing)
	wantValidation(t, err, "endDate")

	reversed := yearRequest("2025/26")
	reversed.StartDate, reversed.EndDate = reversed.EndDate, reversed.StartDate
	_, err = svc.RecordAcademicYear(ctx, "school-1", reversed)
	wantValidation(t, err, "")

	_, err = svc.RecordAcademicYear(ctx, "school-1", yearRequest("  "))
	wantValidation(t, err, "")

	if years := store.yearsOf("school-1"); len(years) != 0 {
		t.Errorf("rejected requests stored %d years", len(years))
	}
}

func TestRecordAcademicYear_StorageFailureKeepsPreviousCurrent(t *testing.T) {
	svc, store := newSetupFixture(nil)
	ctx := context.Background()

	first, err := svc.RecordAcademicYear(ctx, "school-1", yearRequest("2025/26"))
	if err != nil {
		t.Fatal(err)
	}

	store.failOn["CreateAcademicYear"] = errors.New("insert failed")
	if _, err := svc.RecordAcademicYear(ctx, "school-1", yearRequest("2026/27")); err == nil {
		t.Fatal("expected error")
	}

	years := store.yearsOf("school-1")
	if len(years) != 1 || years[0].ID != first.ID {
		t.Fatalf("years = %+v, want only the first", years)
	}
	if !years[0].IsCurrent {
		t.Error("clearing the current flag should roll back")
	}
}

func TestCompleteSchoolProfile(t *testing.T) {
	q := &recordingQueue{}
	svc, store := newSetupFixture(q)
	ctx := context.Background()

	y, err := svc.RecordAcademicYear(ctx, "school-1", yearRequest("2025/26"))
	if err != nil {
		t.Fatal(err)
	}

	school, err := svc.CompleteSchoolProfile(ctx, "school-1", validProfile())
	if err != nil {
		t.Fatalf("CompleteSchoolProfile: %v", err)
	}

	if school.Address != "19 Plympton Street" || school.Phone != "555-0142" || school.PrincipalName != "Seymour Skinner" {
		t.Errorf("school = %+v", school)
	}
	if !school.SetupComplete {
		t.Error("school should be marked set up")
	}

	years := store.yearsOf("school-1")
	if len(years) != 1 || years[0].ID != y.ID || !years[0].IsSetupComplete {
		t.Errorf("years = %+v, want the recorded year marked complete", years)
	}

	if !slices.Equal(q.subjects, []string{messagequeue.SubjectSetupCompleted}) {
		t.Errorf("subjects = %v", q.subjects)
	}
}

func TestCompleteSchoolProfile_Rejections(t *testing.T) {
	svc, store := newSetupFixture(nil)
	ctx := context.Background()

	if _, err := svc.CompleteSchoolProfile(ctx, "", validProfile()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("no school: expected ErrUnauthorized, got %v", err)
	}

	req := validProfile()
	req.PrincipalName = ""
	_, err := svc.CompleteSchoolProfile(ctx, "school-1", req)
	wantValidation(t, err, "principalName")
	var verr *domain.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) != 1 {
		t.Errorf("fields = %v, want only principalName", verr.Fields)
	}

	if _, err := svc.CompleteSchoolProfile(ctx, "missing-school", validProfile()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown school: expected ErrNotFound, got %v", err)
	}

	if store.calls["MarkCurrentYearsSetupComplete"] != 0 {
		t.Error("years must not be touched by rejected requests")
	}
}

func TestCompleteSchoolProfile_RollsBackOnYearUpdateFailure(t *testing.T) {
	svc, store := newSetupFixture(nil)
	store.failOn["MarkCurrentYearsSetupComplete"] = errors.New("lock timeout")

	if _, err := svc.CompleteSchoolProfile(context.Background(), "school-1", validProfile()); err == nil {
		t.Fatal("expected error")
	}

	school, err := store.GetSchool(context.Background(), "school-1")
	if err != nil {
		t.Fatal(err)
	}
	if school.SetupComplete || school.Address != "" {
		t.Errorf("profile update should roll back, got %+v", school)
	}
}
