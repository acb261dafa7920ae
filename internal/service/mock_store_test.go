package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Strob0t/schoolforge/internal/domain"
	"github.com/Strob0t/schoolforge/internal/domain/academic"
	"github.com/Strob0t/schoolforge/internal/domain/profile"
	"github.com/Strob0t/schoolforge/internal/domain/tenant"
	"github.com/Strob0t/schoolforge/internal/domain/user"
	"github.com/Strob0t/schoolforge/internal/port/database"
)

// memState is the mutable content of mockStore; InTx snapshots it.
type memState struct {
	users    map[string]user.User // by id
	students []profile.Student
	teachers []profile.Teacher
	staff    []profile.Staff
	parents  []profile.Parent
	plans    map[string]tenant.Plan   // by name
	schools  map[string]tenant.Tenant // by id
	years    []academic.Year
}

func (s memState) clone() memState {
	return memState{
		users:    maps.Clone(s.users),
		students: slices.Clone(s.students),
		teachers: slices.Clone(s.teachers),
		staff:    slices.Clone(s.staff),
		parents:  slices.Clone(s.parents),
		plans:    maps.Clone(s.plans),
		schools:  maps.Clone(s.schools),
		years:    slices.Clone(s.years),
	}
}

// mockStore is an in-memory database.Store. InTx restores the previous state
// when fn fails. failOn injects an error for the named method.
type mockStore struct {
	mu     sync.Mutex
	state  memState
	failOn map[string]error
	calls  map[string]int
}

var _ database.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		state: memState{
			users:   map[string]user.User{},
			plans:   map[string]tenant.Plan{},
			schools: map[string]tenant.Tenant{},
		},
		failOn: map[string]error{},
		calls:  map[string]int{},
	}
}

func (m *mockStore) hit(method string) error {
	m.calls[method]++
	return m.failOn[method]
}

func (m *mockStore) InTx(_ context.Context, fn func(tx database.Store) error) error {
	m.mu.Lock()
	snapshot := m.state.clone()
	m.calls["InTx"]++
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.state = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *mockStore) Ping(context.Context) error { return nil }

// --- Users ---

func (m *mockStore) CreateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("CreateUser"); err != nil {
		return err
	}
	for _, existing := range m.state.users {
		if existing.Email == u.Email {
			return &domain.DuplicateIdentityError{Email: u.Email}
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	m.state.users[u.ID] = *u
	return nil
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("GetUserByEmail"); err != nil {
		return nil, err
	}
	for _, u := range m.state.users {
		if u.Email == email {
			if u.SchoolID != nil {
				u.SchoolSlug = m.state.schools[*u.SchoolID].Slug
			}
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user by email %s: %w", email, domain.ErrNotFound)
}

func (m *mockStore) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("TouchLastLogin"); err != nil {
		return err
	}
	u, ok := m.state.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.LastLoginAt = &at
	m.state.users[id] = u
	return nil
}

func (m *mockStore) UpdateUserPassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("UpdateUserPassword"); err != nil {
		return err
	}
	u, ok := m.state.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	m.state.users[id] = u
	return nil
}

// --- Profiles ---

func (m *mockStore) CreateStudent(_ context.Context, p *profile.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("CreateStudent"); err != nil {
		return err
	}
	m.state.students = append(m.state.students, *p)
	return nil
}

func (m *mockStore) CreateTeacher(_ context.Context, p *profile.Teacher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("CreateTeacher"); err != nil {
		return err
	}
	m.state.teachers = append(m.state.teachers, *p)
	return nil
}

func (m *mockStore) CreateStaff(_ context.Context, p *profile.Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("CreateStaff"); err != nil {
		return err
	}
	m.state.staff = append(m.state.staff, *p)
	return nil
}

func (m *mockStore) CreateParent(_ context.Context, p *profile.Parent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("CreateParent"); err != nil {
		return err
	}
	m.state.parents = append(m.state.parents, *p)
	return nil
}

// --- Plans ---

func (m *mockStore) GetPlanByName(_ context.Context, name string) (*tenant.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("GetPlanByName"); err != nil {
		return nil, err
	}
	p, ok := m.state.plans[name]
	if !ok {
		return nil, fmt.Errorf("get plan %s: %w", name, domain.ErrNotFound)
	}
	return &p, nil
}

func (m *mockStore) CreatePlan(_ context.Context, p *tenant.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("CreatePlan"); err != nil {
		return err
	}
	if _, ok := m.state.plans[p.Name]; ok {
		return fmt.Errorf("create plan %s: %w", p.Name, domain.ErrConflict)
	}
	m.state.plans[p.Name] = *p
	return nil
}

// --- Schools ---

func (m *mockStore) CreateSchool(_ context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("CreateSchool"); err != nil {
		return err
	}
	for _, existing := range m.state.schools {
		if existing.Slug == t.Slug {
			return fmt.Errorf("create school %s: %w", t.Slug, tenant.ErrSlugTaken)
		}
	}
	m.state.schools[t.ID] = *t
	return nil
}

func (m *mockStore) GetSchool(_ context.Context, id string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.state.schools[id]
	if !ok {
		return nil, fmt.Errorf("get school %s: %w", id, domain.ErrNotFound)
	}
	return &t, nil
}

func (m *mockStore) GetSchoolBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.state.schools {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("get school by slug %s: %w", slug, domain.ErrNotFound)
}

func (m *mockStore) ListSchoolSummaries(_ context.Context) ([]tenant.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("ListSchoolSummaries"); err != nil {
		return nil, err
	}
	out := []tenant.Summary{}
	for _, t := range m.state.schools {
		sum := tenant.Summary{Tenant: t}
		for _, u := range m.state.users {
			if u.SchoolID != nil && *u.SchoolID == t.ID {
				sum.Counts.Users++
			}
		}
		for _, st := range m.state.students {
			if st.SchoolID == t.ID {
				sum.Counts.Students++
			}
		}
		for _, te := range m.state.teachers {
			if te.SchoolID == t.ID {
				sum.Counts.Teachers++
			}
		}
		out = append(out, sum)
	}
	slices.SortFunc(out, func(a, b tenant.Summary) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *mockStore) UpdateSchoolProfile(_ context.Context, id string, req tenant.ProfileRequest) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("UpdateSchoolProfile"); err != nil {
		return nil, err
	}
	t, ok := m.state.schools[id]
	if !ok {
		return nil, fmt.Errorf("update school profile %s: %w", id, domain.ErrNotFound)
	}
	t.Address, t.Phone, t.PrincipalName = req.Address, req.Phone, req.PrincipalName
	t.SetupComplete = true
	m.state.schools[id] = t
	return &t, nil
}

// --- Academic years ---

func (m *mockStore) ClearCurrentAcademicYears(_ context.Context, schoolID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("ClearCurrentAcademicYears"); err != nil {
		return err
	}
	for i := range m.state.years {
		if m.state.years[i].SchoolID == schoolID {
			m.state.years[i].IsCurrent = false
		}
	}
	return nil
}

func (m *mockStore) CreateAcademicYear(_ context.Context, y *academic.Year) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("CreateAcademicYear"); err != nil {
		return err
	}
	if y.IsCurrent {
		for _, other := range m.state.years {
			if other.SchoolID == y.SchoolID && other.IsCurrent {
				return fmt.Errorf("create academic year: %w", domain.ErrConflict)
			}
		}
	}
	m.state.years = append(m.state.years, *y)
	return nil
}

func (m *mockStore) MarkCurrentYearsSetupComplete(_ context.Context, schoolID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hit("MarkCurrentYearsSetupComplete"); err != nil {
		return 0, err
	}
	var n int64
	for i := range m.state.years {
		if m.state.years[i].SchoolID == schoolID && m.state.years[i].IsCurrent {
			m.state.years[i].IsSetupComplete = true
			n++
		}
	}
	return n, nil
}

// --- helpers ---

func (m *mockStore) userCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.users)
}

func (m *mockStore) yearsOf(schoolID string) []academic.Year {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []academic.Year
	for _, y := range m.state.years {
		if y.SchoolID == schoolID {
			out = append(out, y)
		}
	}
	return out
}

func (m *mockStore) setUserActive(email string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.state.users {
		if u.Email == email {
			u.IsActive = active
			m.state.users[id] = u
		}
	}
}

// recordingQueue captures published messages.
type recordingQueue struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
}

func (q *recordingQueue) Publish(_ context.Context, subject string, data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.subjects = append(q.subjects, subject)
	q.payloads = append(q.payloads, data)
	return nil
}

func (q *recordingQueue) Drain() error      { return nil }
func (q *recordingQueue) Close() error      { return nil }
func (q *recordingQueue) IsConnected() bool { return true }
