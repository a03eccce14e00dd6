package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/internal/repository"
)

type fakeClinicRepo struct {
	hours []model.ClinicHours
}

func (f *fakeClinicRepo) Create(ctx context.Context, clinic *model.Clinic) error { return nil }
func (f *fakeClinicRepo) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	return &model.Clinic{Base: model.Base{ID: id}, Name: "Test Clinic", Status: "active"}, nil
}
func (f *fakeClinicRepo) Update(ctx context.Context, clinic *model.Clinic) error { return nil }
func (f *fakeClinicRepo) List(ctx context.Context, filters *model.ClinicFilters) ([]*model.Clinic, error) {
	return nil, nil
}
func (f *fakeClinicRepo) GetHours(ctx context.Context, clinicID uuid.UUID) ([]model.ClinicHours, error) {
	return f.hours, nil
}
func (f *fakeClinicRepo) SetHours(ctx context.Context, clinicID uuid.UUID, hours []model.ClinicHours) error {
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
	vets  []*model.User
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakeUserRepo) ListVetsByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	return f.vets, nil
}

type fakeAppointmentRepo struct {
	appointments []*model.Appointment
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	f.appointments = append(f.appointments, a)
	return nil
}
func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error { return nil }
func (f *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return f.appointments, nil
}
func (f *fakeAppointmentRepo) FindLiveInRange(ctx context.Context, vetUserID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range f.appointments {
		if a.VetUserID == vetUserID && a.Status.IsLive() && a.StartsAt.Before(to) && from.Before(a.EndsAt) {
			out = append(out, a)
		}
	}
	return out, nil
}
func (f *fakeAppointmentRepo) CheckConflicts(ctx context.Context, vetUserID uuid.UUID, startsAt, endsAt time.Time, excludeID *uuid.UUID) (bool, error) {
	for _, a := range f.appointments {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.VetUserID == vetUserID && a.Status.IsLive() && a.StartsAt.Before(endsAt) && startsAt.Before(a.EndsAt) {
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeAppointmentRepo) FindAgendaItems(ctx context.Context, vetUserID uuid.UUID, from, to time.Time) ([]*model.AgendaItem, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) FindDueForReminder(ctx context.Context, from, to time.Time) ([]*model.ReminderCandidate, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) MarkReminded(ctx context.Context, id uuid.UUID) error { return nil }

type fakeBlockedRepo struct {
	periods []*model.BlockedPeriod
}

func (f *fakeBlockedRepo) Create(ctx context.Context, p *model.BlockedPeriod) error {
	f.periods = append(f.periods, p)
	return nil
}
func (f *fakeBlockedRepo) FindInRange(ctx context.Context, vetUserID uuid.UUID, from, to time.Time) ([]*model.BlockedPeriod, error) {
	var out []*model.BlockedPeriod
	for _, p := range f.periods {
		if p.VetUserID == vetUserID && p.StartsAt.Before(to) && from.Before(p.EndsAt) {
			out = append(out, p)
		}
	}
	return out, nil
}
func (f *fakeBlockedRepo) HasOverlap(ctx context.Context, vetUserID uuid.UUID, startsAt, endsAt time.Time) (bool, error) {
	for _, p := range f.periods {
		if p.VetUserID == vetUserID && p.StartsAt.Before(endsAt) && startsAt.Before(p.EndsAt) {
			return true, nil
		}
	}
	return false, nil
}

// Monday with a 09:00-19:00 window and 30-minute slots.
var testDay = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func mondayHours(clinicID uuid.UUID) []model.ClinicHours {
	return []model.ClinicHours{{
		ClinicID:     clinicID,
		Weekday:      1,
		OpenMinutes:  9 * 60,
		CloseMinutes: 19 * 60,
		SlotMinutes:  30,
	}}
}

func at(hour, min int) time.Time {
	return time.Date(2024, 6, 3, hour, min, 0, 0, time.UTC)
}

func newVet(clinicID uuid.UUID) *model.User {
	return &model.User{
		Base:     model.Base{ID: uuid.New()},
		Email:    "vet@example.com",
		Role:     model.UserRoleVet,
		ClinicID: &clinicID,
	}
}

func TestGenerateSlotsFullOpenDay(t *testing.T) {
	clinicID := uuid.New()
	vet := newVet(clinicID)

	svc := NewService(
		&fakeClinicRepo{hours: mondayHours(clinicID)},
		&fakeUserRepo{users: map[uuid.UUID]*model.User{vet.ID: vet}},
		&fakeAppointmentRepo{},
		&fakeBlockedRepo{},
		nil,
	)

	slots, err := svc.GenerateSlots(context.Background(), clinicID, testDay, &vet.ID)
	require.NoError(t, err)
	require.Len(t, slots, 20)

	assert.Equal(t, at(9, 0), slots[0].Start)
	assert.Equal(t, at(9, 30), slots[0].End)
	assert.Equal(t, at(18, 30), slots[19].Start)
	assert.Equal(t, at(19, 0), slots[19].End)

	for i := 1; i < len(slots); i++ {
		assert.True(t, !slots[i].Start.Before(slots[i-1].End), "slots must not overlap")
	}
}

func TestGenerateSlotsExcludesBookedSlot(t *testing.T) {
	clinicID := uuid.New()
	vet := newVet(clinicID)

	appointments := &fakeAppointmentRepo{appointments: []*model.Appointment{{
		Base:      model.Base{ID: uuid.New()},
		VetUserID: vet.ID,
		StartsAt:  at(10, 0),
		EndsAt:    at(10, 30),
		Status:    model.AppointmentStatusConfirmed,
	}}}

	svc := NewService(
		&fakeClinicRepo{hours: mondayHours(clinicID)},
		&fakeUserRepo{users: map[uuid.UUID]*model.User{vet.ID: vet}},
		appointments,
		&fakeBlockedRepo{},
		nil,
	)

	slots, err := svc.GenerateSlots(context.Background(), clinicID, testDay, &vet.ID)
	require.NoError(t, err)
	require.Len(t, slots, 19)

	for _, s := range slots {
		assert.False(t, s.Start.Equal(at(10, 0)), "booked slot must be excluded")
	}
	// Adjacent slots stay free: back-to-back intervals do not conflict.
	starts := make(map[time.Time]bool)
	for _, s := range slots {
		starts[s.Start] = true
	}
	assert.True(t, starts[at(9, 30)])
	assert.True(t, starts[at(10, 30)])
}

func TestGenerateSlotsIgnoresCancelledAndRejected(t *testing.T) {
	clinicID := uuid.New()
	vet := newVet(clinicID)

	appointments := &fakeAppointmentRepo{appointments: []*model.Appointment{
		{
			Base: model.Base{ID: uuid.New()}, VetUserID: vet.ID,
			StartsAt: at(10, 0), EndsAt: at(10, 30),
			Status: model.AppointmentStatusCancelled,
		},
		{
			Base: model.Base{ID: uuid.New()}, VetUserID: vet.ID,
			StartsAt: at(11, 0), EndsAt: at(11, 30),
			Status: model.AppointmentStatusRejected,
		},
	}}

	svc := NewService(
		&fakeClinicRepo{hours: mondayHours(clinicID)},
		&fakeUserRepo{users: map[uuid.UUID]*model.User{vet.ID: vet}},
		appointments,
		&fakeBlockedRepo{},
		nil,
	)

	slots, err := svc.GenerateSlots(context.Background(), clinicID, testDay, &vet.ID)
	require.NoError(t, err)
	assert.Len(t, slots, 20, "cancelled and rejected appointments free their slots")
}

func TestGenerateSlotsExcludesBlockedPeriod(t *testing.T) {
	clinicID := uuid.New()
	vet := newVet(clinicID)

	blocked := &fakeBlockedRepo{periods: []*model.BlockedPeriod{{
		Base:      model.Base{ID: uuid.New()},
		ClinicID:  clinicID,
		VetUserID: vet.ID,
		StartsAt:  at(14, 0),
		EndsAt:    at(16, 0),
	}}}

	svc := NewService(
		&fakeClinicRepo{hours: mondayHours(clinicID)},
		&fakeUserRepo{users: map[uuid.UUID]*model.User{vet.ID: vet}},
		&fakeAppointmentRepo{},
		blocked,
		nil,
	)

	slots, err := svc.GenerateSlots(context.Background(), clinicID, testDay, &vet.ID)
	require.NoError(t, err)
	assert.Len(t, slots, 16)
	for _, s := range slots {
		assert.False(t, s.Overlaps(at(14, 0), at(16, 0)))
	}
}

func TestGenerateSlotsClosedDayReturnsEmpty(t *testing.T) {
	clinicID := uuid.New()
	vet := newVet(clinicID)

	svc := NewService(
		&fakeClinicRepo{hours: mondayHours(clinicID)},
		&fakeUserRepo{users: map[uuid.UUID]*model.User{vet.ID: vet}},
		&fakeAppointmentRepo{},
		&fakeBlockedRepo{},
		nil,
	)

	// Sunday: no hours row for weekday 7.
	sunday := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	slots, err := svc.GenerateSlots(context.Background(), clinicID, sunday, &vet.ID)
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGenerateSlotsAllVetsWhenNoVetGiven(t *testing.T) {
	clinicID := uuid.New()
	vetA := newVet(clinicID)
	vetB := newVet(clinicID)

	svc := NewService(
		&fakeClinicRepo{hours: mondayHours(clinicID)},
		&fakeUserRepo{
			users: map[uuid.UUID]*model.User{vetA.ID: vetA, vetB.ID: vetB},
			vets:  []*model.User{vetA, vetB},
		},
		&fakeAppointmentRepo{},
		&fakeBlockedRepo{},
		nil,
	)

	slots, err := svc.GenerateSlots(context.Background(), clinicID, testDay, nil)
	require.NoError(t, err)
	assert.Len(t, slots, 40)

	for i := 1; i < len(slots); i++ {
		assert.True(t, !slots[i].Start.Before(slots[i-1].Start), "slots must be sorted by start")
	}
}

func TestGenerateSlotsUnknownVet(t *testing.T) {
	clinicID := uuid.New()

	svc := NewService(
		&fakeClinicRepo{hours: mondayHours(clinicID)},
		&fakeUserRepo{users: map[uuid.UUID]*model.User{}},
		&fakeAppointmentRepo{},
		&fakeBlockedRepo{},
		nil,
	)

	unknown := uuid.New()
	_, err := svc.GenerateSlots(context.Background(), clinicID, testDay, &unknown)
	require.Error(t, err)
}

func TestGenerateSlotsIdempotent(t *testing.T) {
	clinicID := uuid.New()
	vet := newVet(clinicID)

	svc := NewService(
		&fakeClinicRepo{hours: mondayHours(clinicID)},
		&fakeUserRepo{users: map[uuid.UUID]*model.User{vet.ID: vet}},
		&fakeAppointmentRepo{},
		&fakeBlockedRepo{},
		nil,
	)

	first, err := svc.GenerateSlots(context.Background(), clinicID, testDay, &vet.ID)
	require.NoError(t, err)
	second, err := svc.GenerateSlots(context.Background(), clinicID, testDay, &vet.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCheckSlotFree(t *testing.T) {
	clinicID := uuid.New()
	vet := newVet(clinicID)

	appointments := &fakeAppointmentRepo{appointments: []*model.Appointment{{
		Base:      model.Base{ID: uuid.New()},
		VetUserID: vet.ID,
		StartsAt:  at(10, 0),
		EndsAt:    at(10, 30),
		Status:    model.AppointmentStatusPending,
	}}}
	blocked := &fakeBlockedRepo{periods: []*model.BlockedPeriod{{
		Base:      model.Base{ID: uuid.New()},
		VetUserID: vet.ID,
		StartsAt:  at(15, 0),
		EndsAt:    at(16, 0),
	}}}

	svc := NewService(
		&fakeClinicRepo{hours: mondayHours(clinicID)},
		&fakeUserRepo{users: map[uuid.UUID]*model.User{vet.ID: vet}},
		appointments,
		blocked,
		nil,
	)
	ctx := context.Background()

	free, err := svc.CheckSlotFree(ctx, vet.ID, at(11, 0), at(11, 30), nil)
	require.NoError(t, err)
	assert.True(t, free)

	free, err = svc.CheckSlotFree(ctx, vet.ID, at(10, 0), at(10, 30), nil)
	require.NoError(t, err)
	assert.False(t, free, "booked interval is not free")

	free, err = svc.CheckSlotFree(ctx, vet.ID, at(15, 30), at(16, 0), nil)
	require.NoError(t, err)
	assert.False(t, free, "blocked interval is not free")

	// Adjacent on both sides of a booking is fine.
	free, err = svc.CheckSlotFree(ctx, vet.ID, at(10, 30), at(11, 0), nil)
	require.NoError(t, err)
	assert.True(t, free)

	// Excluding the conflicting appointment itself frees the interval.
	excludeID := appointments.appointments[0].ID
	free, err = svc.CheckSlotFree(ctx, vet.ID, at(10, 0), at(10, 30), &excludeID)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestIsoWeekday(t *testing.T) {
	assert.Equal(t, 1, isoWeekday(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)))  // Monday
	assert.Equal(t, 6, isoWeekday(time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)))  // Saturday
	assert.Equal(t, 7, isoWeekday(time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)))  // Sunday
}
