package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/internal/repository"
)

func newMockRepo(t *testing.T) (repository.AppointmentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAppointmentRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func testAppointment() *model.Appointment {
	return &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		ClinicID:  uuid.New(),
		AnimalID:  uuid.New(),
		VetUserID: uuid.New(),
		StartsAt:  time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		EndsAt:    time.Date(2024, 6, 3, 10, 30, 0, 0, time.UTC),
		Status:    model.AppointmentStatusPending,
	}
}

func TestCreateAppointment(t *testing.T) {
	repo, mock := newMockRepo(t)
	a := testAppointment()

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(a.ID, a.ClinicID, a.AnimalID, a.VetUserID, a.Type,
			a.StartsAt, a.EndsAt, a.Status, a.RejectionReason, a.Report,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), a)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppointmentExclusionViolation(t *testing.T) {
	repo, mock := newMockRepo(t)
	a := testAppointment()

	mock.ExpectExec("INSERT INTO appointments").
		WillReturnError(&pq.Error{Code: pgExclusionViolation, Constraint: "appointments_no_overlap"})

	err := repo.Create(context.Background(), a)
	assert.True(t, errors.Is(err, repository.ErrOverlap))
}

func TestGetAppointmentNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), id)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestUpdateAppointmentNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	a := testAppointment()

	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), a)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestCheckConflicts(t *testing.T) {
	repo, mock := newMockRepo(t)
	vetID := uuid.New()
	from := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	to := from.Add(30 * time.Minute)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(vetID, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	conflict, err := repo.CheckConflicts(context.Background(), vetID, from, to, nil)
	require.NoError(t, err)
	assert.True(t, conflict)
}

func TestCheckConflictsExcludesAppointment(t *testing.T) {
	repo, mock := newMockRepo(t)
	vetID := uuid.New()
	excludeID := uuid.New()
	from := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	to := from.Add(30 * time.Minute)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(vetID, from, to, excludeID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	conflict, err := repo.CheckConflicts(context.Background(), vetID, from, to, &excludeID)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestFindAgendaItems(t *testing.T) {
	repo, mock := newMockRepo(t)
	vetID := uuid.New()
	appointmentID := uuid.New()
	from := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery("SELECT a.id AS id").
		WithArgs(vetID, from, to).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "vet_user_id", "starts_at", "ends_at", "status", "animal_name", "owner_name",
		}).AddRow(appointmentID, vetID, from.Add(10*time.Hour), from.Add(10*time.Hour+30*time.Minute),
			"CONFIRMED", "Rex", "Jordan"))

	items, err := repo.FindAgendaItems(context.Background(), vetID, from, to)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Rex", items[0].AnimalName)
	assert.Equal(t, "Jordan", items[0].OwnerName)
	require.NotNil(t, items[0].AppointmentID)
	assert.Equal(t, appointmentID, *items[0].AppointmentID)
}
