package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Strob0t/schoolforge/internal/domain/profile"
	"github.com/Strob0t/schoolforge/internal/domain/tenant"
	"github.com/Strob0t/schoolforge/internal/service"
)

// seedFile is the document read by "admin seed". Accounts under a school
// are bound to that school by slug; any schoolId they carry is ignored.
type seedFile struct {
	SuperAdmins []profile.SuperAdminInput `yaml:"superAdmins"`
	Schools     []schoolSeed              `yaml:"schools"`
}

type schoolSeed struct {
	Slug     string                     `yaml:"slug"`
	Admins   []profile.SchoolAdminInput `yaml:"admins"`
	Students []profile.StudentInput     `yaml:"students"`
	Teachers []profile.TeacherInput     `yaml:"teachers"`
	Staff    []profile.StaffInput       `yaml:"staff"`
	Parents  []profile.ParentInput      `yaml:"parents"`
}

type schoolFinder interface {
	GetSchoolBySlug(ctx context.Context, slug string) (*tenant.Tenant, error)
}

type accountSeeder interface {
	SeedSuperAdmin(ctx context.Context, in profile.SuperAdminInput) (*service.Result, error)
	SeedSchoolAdmin(ctx context.Context, in profile.SchoolAdminInput) (*service.Result, error)
	SeedStudent(ctx context.Context, in profile.StudentInput) (*service.Result, error)
	SeedTeacher(ctx context.Context, in profile.TeacherInput) (*service.Result, error)
	SeedStaff(ctx context.Context, in profile.StaffInput) (*service.Result, error)
	SeedParent(ctx context.Context, in profile.ParentInput) (*service.Result, error)
}

func loadSeedFile(path string) (*seedFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc seedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, s := range doc.Schools {
		if s.Slug == "" {
			return nil, fmt.Errorf("parse %s: schools[%d] has no slug", path, i)
		}
	}
	return &doc, nil
}

// applySeed runs the seeders in document order and stops at the first
// failure. Each account is its own transaction, so accounts seeded before
// the failure stay. It returns how many accounts were created.
func applySeed(ctx context.Context, schools schoolFinder, seeder accountSeeder, doc *seedFile) (int, error) {
	n := 0
	step := func(_ *service.Result, err error) error {
		if err != nil {
			return err
		}
		n++
		return nil
	}

	for _, in := range doc.SuperAdmins {
		if err := step(seeder.SeedSuperAdmin(ctx, in)); err != nil {
			return n, err
		}
	}

	for _, s := range doc.Schools {
		school, err := schools.GetSchoolBySlug(ctx, s.Slug)
		if err != nil {
			return n, fmt.Errorf("school %q: %w", s.Slug, err)
		}
		id := school.ID

		for _, in := range s.Admins {
			in.SchoolID = id
			if err := step(seeder.SeedSchoolAdmin(ctx, in)); err != nil {
				return n, err
			}
		}
		for _, in := range s.Teachers {
			in.SchoolID = id
			if err := step(seeder.SeedTeacher(ctx, in)); err != nil {
				return n, err
			}
		}
		for _, in := range s.Staff {
			in.SchoolID = id
			if err := step(seeder.SeedStaff(ctx, in)); err != nil {
				return n, err
			}
		}
		for _, in := range s.Students {
			in.SchoolID = id
			if err := step(seeder.SeedStudent(ctx, in)); err != nil {
				return n, err
			}
		}
		for _, in := range s.Parents {
			in.SchoolID = &id
			if err := step(seeder.SeedParent(ctx, in)); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}
