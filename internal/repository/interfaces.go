package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vitavet/vitavet-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository handles appointment persistence. Range queries
	// use half-open [from, to) semantics and return rows whose interval
	// intersects the range.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		FindLiveInRange(ctx context.Context, vetUserID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
		CheckConflicts(ctx context.Context, vetUserID uuid.UUID, startsAt, endsAt time.Time, excludeID *uuid.UUID) (bool, error)
		FindAgendaItems(ctx context.Context, vetUserID uuid.UUID, from, to time.Time) ([]*model.AgendaItem, error)
		FindDueForReminder(ctx context.Context, from, to time.Time) ([]*model.ReminderCandidate, error)
		MarkReminded(ctx context.Context, id uuid.UUID) error
	}

	BlockedPeriodRepository interface {
		Create(ctx context.Context, period *model.BlockedPeriod) error
		FindInRange(ctx context.Context, vetUserID uuid.UUID, from, to time.Time) ([]*model.BlockedPeriod, error)
		HasOverlap(ctx context.Context, vetUserID uuid.UUID, startsAt, endsAt time.Time) (bool, error)
	}

	ClinicRepository interface {
		Create(ctx context.Context, clinic *model.Clinic) error
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		Update(ctx context.Context, clinic *model.Clinic) error
		List(ctx context.Context, filters *model.ClinicFilters) ([]*model.Clinic, error)
		GetHours(ctx context.Context, clinicID uuid.UUID) ([]model.ClinicHours, error)
		SetHours(ctx context.Context, clinicID uuid.UUID, hours []model.ClinicHours) error
	}

	AnimalRepository interface {
		Create(ctx context.Context, animal *model.Animal) error
		Get(ctx context.Context, id uuid.UUID) (*model.Animal, error)
		Update(ctx context.Context, animal *model.Animal) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]*model.Animal, error)
	}

	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		ListVetsByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	}
)
