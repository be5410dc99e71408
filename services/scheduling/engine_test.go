package scheduling

import (
	"context"
	"sort"
	"time"

	appointmentRepo "clinicore/database/repository/appointment"
	appointmentTypeRepo "clinicore/database/repository/appointmenttype"
	providerRepo "clinicore/database/repository/provider"
	"clinicore/models"
)

// fakeProviderRepo serves a fixed set of providers from memory.
type fakeProviderRepo struct {
	providers map[string]*models.Provider
}

func (f *fakeProviderRepo) GetByID(_ context.Context, providerID string) (*models.Provider, error) {
	p, ok := f.providers[providerID]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

// fakeTypeRepo serves a fixed set of appointment types from memory.
type fakeTypeRepo struct {
	types map[string]*models.AppointmentType
}

func (f *fakeTypeRepo) GetByID(_ context.Context, typeID string) (*models.AppointmentType, error) {
	t, ok := f.types[typeID]
	if !ok {
		return nil, appointmentTypeRepo.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

// fakeApptRepo is an in-memory AppointmentRepository. errFrom/errTo inject a
// failure for any list query overlapping that window.
type fakeApptRepo struct {
	appts     []models.Appointment
	listCalls int
	listErr   error
	errFrom   time.Time
	errTo     time.Time
	createErr error
}

func (f *fakeApptRepo) ListForProviderInWindow(_ context.Context, providerID string, from, to time.Time, excludeStatuses []string) ([]models.Appointment, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if !f.errFrom.IsZero() && from.Before(f.errTo) && to.After(f.errFrom) {
		return nil, errInjected
	}

	excluded := make(map[string]bool, len(excludeStatuses))
	for _, s := range excludeStatuses {
		excluded[s] = true
	}

	var out []models.Appointment
	for _, appt := range f.appts {
		if appt.ProviderID != providerID || excluded[appt.Status] {
			continue
		}
		if appt.Start.Before(to) && appt.End.After(from) {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (f *fakeApptRepo) CreateTransactionally(_ context.Context, appt *models.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.appts = append(f.appts, *appt)
	return nil
}

func (f *fakeApptRepo) GetByID(_ context.Context, apptID string) (*models.Appointment, error) {
	for i := range f.appts {
		if f.appts[i].ID == apptID {
			clone := f.appts[i]
			return &clone, nil
		}
	}
	return nil, appointmentRepo.ErrNotFound
}

func (f *fakeApptRepo) UpdateStatus(_ context.Context, apptID, status string) error {
	for i := range f.appts {
		if f.appts[i].ID == apptID {
			f.appts[i].Status = status
			return nil
		}
	}
	return appointmentRepo.ErrNotFound
}

func (f *fakeApptRepo) CancelAppointment(ctx context.Context, apptID string) error {
	return f.UpdateStatus(ctx, apptID, models.StatusCancelled)
}

var errInjected = &fakeStoreError{}

type fakeStoreError struct{}

func (*fakeStoreError) Error() string { return "injected store failure" }

// fakeLocker simulates a lock that is already held when held is true.
type fakeLocker struct {
	held  bool
	calls int
}

func (f *fakeLocker) WithProviderLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	f.calls++
	if f.held {
		return ErrLockNotAcquired
	}
	return fn(ctx)
}

// Test fixtures: a New York dentist open Mondays 08:00-12:00 local, a 30
// minute cleaning with no buffer override, and a fixed clock well before the
// test Monday (2030-01-07).
const (
	testProviderID = "prov-1"
	testTypeID     = "type-1"
	testTZ         = "America/New_York"
)

func testProvider() *models.Provider {
	return &models.Provider{
		ID:       testProviderID,
		Name:     "Dr. Mills",
		Timezone: testTZ,
		WeekSchedule: map[string]models.DaySchedule{
			"monday": {Start: "08:00", End: "12:00", IsWorking: true},
		},
		Active: true,
	}
}

func testType(durationMin int) *models.AppointmentType {
	return &models.AppointmentType{
		ID:          testTypeID,
		Name:        "Cleaning",
		DurationMin: durationMin,
		Active:      true,
	}
}

func testNow() time.Time {
	return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
}

func newTestEngine(provider *models.Provider, apptType *models.AppointmentType, apptRepo *fakeApptRepo) *DefaultSchedulingEngine {
	return &DefaultSchedulingEngine{
		ProviderRepo: &fakeProviderRepo{providers: map[string]*models.Provider{provider.ID: provider}},
		TypeRepo:     &fakeTypeRepo{types: map[string]*models.AppointmentType{apptType.ID: apptType}},
		ApptRepo:     apptRepo,
		Hours:        NewHoursCache(0),
		Now:          testNow,
	}
}

// testMonday returns an instant on Monday 2030-01-07 in the provider's zone.
func testMonday(hour, minute int) time.Time {
	loc, err := time.LoadLocation(testTZ)
	if err != nil {
		panic(err)
	}
	return time.Date(2030, 1, 7, hour, minute, 0, 0, loc)
}
