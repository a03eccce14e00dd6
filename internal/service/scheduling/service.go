package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/internal/repository"
	apperrors "github.com/vitavet/vitavet-api/pkg/errors"
	"github.com/vitavet/vitavet-api/pkg/logger"
	"github.com/vitavet/vitavet-api/pkg/metrics"
	"github.com/vitavet/vitavet-api/pkg/redislock"
)

// AppointmentDuration is the fixed booking length. Every appointment ends
// exactly this long after it starts.
const AppointmentDuration = time.Duration(model.DefaultSlotMinutes) * time.Minute

// SlotChecker is the conflict-check contract the scheduler re-runs at write
// time. The availability service satisfies it.
type SlotChecker interface {
	CheckSlotFree(ctx context.Context, vetUserID uuid.UUID, startsAt, endsAt time.Time, excludeAppointmentID *uuid.UUID) (bool, error)
}

type Service struct {
	appointmentRepo repository.AppointmentRepository
	blockedRepo     repository.BlockedPeriodRepository
	clinicRepo      repository.ClinicRepository
	animalRepo      repository.AnimalRepository
	userRepo        repository.UserRepository
	outboxRepo      repository.OutboxRepository
	checker         SlotChecker
	locker          redislock.SlotLocker
	logger          *logger.Logger
	metrics         *metrics.Metrics
}

func NewService(
	appointmentRepo repository.AppointmentRepository,
	blockedRepo repository.BlockedPeriodRepository,
	clinicRepo repository.ClinicRepository,
	animalRepo repository.AnimalRepository,
	userRepo repository.UserRepository,
	outboxRepo repository.OutboxRepository,
	checker SlotChecker,
	locker redislock.SlotLocker,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	if locker == nil {
		locker = redislock.NoopLocker{}
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		blockedRepo:     blockedRepo,
		clinicRepo:      clinicRepo,
		animalRepo:      animalRepo,
		userRepo:        userRepo,
		outboxRepo:      outboxRepo,
		checker:         checker,
		locker:          locker,
		logger:          log,
		metrics:         m,
	}
}

// CreateAppointment books a PENDING appointment for the given vet and start
// time. The conflict check is re-run here regardless of any availability
// query the client made before: time has passed and another booking may have
// landed. The database exclusion constraint backs this check, so two
// concurrent creations for the same vet+interval end with exactly one
// success.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if req.StartsAt.IsZero() {
		return nil, apperrors.Validation("starts_at is required")
	}

	if _, err := s.clinicRepo.Get(ctx, req.ClinicID); err != nil {
		return nil, mapNotFound("clinic", err)
	}
	if _, err := s.animalRepo.Get(ctx, req.AnimalID); err != nil {
		return nil, mapNotFound("animal", err)
	}
	vet, err := s.userRepo.Get(ctx, req.VetUserID)
	if err != nil {
		return nil, mapNotFound("vet", err)
	}
	if vet.Role != model.UserRoleVet {
		return nil, apperrors.Validation("vet_user_id does not reference a veterinarian")
	}

	endsAt := req.StartsAt.Add(AppointmentDuration)

	appointment := &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		ClinicID:  req.ClinicID,
		AnimalID:  req.AnimalID,
		VetUserID: req.VetUserID,
		Type:      req.Type,
		StartsAt:  req.StartsAt,
		EndsAt:    endsAt,
		Status:    model.AppointmentStatusPending,
	}

	err = s.locker.WithSlotLock(ctx, req.VetUserID, req.StartsAt, func(lockCtx context.Context) error {
		free, err := s.checker.CheckSlotFree(lockCtx, req.VetUserID, req.StartsAt, endsAt, nil)
		if err != nil {
			return fmt.Errorf("failed to check slot: %w", err)
		}
		if !free {
			return apperrors.Conflict("slot no longer available", nil)
		}
		return s.appointmentRepo.Create(lockCtx, appointment)
	})
	if err != nil {
		if errors.Is(err, redislock.ErrLockNotAcquired) {
			s.metrics.IncBookingConflicts()
			return nil, apperrors.Conflict("slot is being booked, please retry", err)
		}
		if errors.Is(err, repository.ErrOverlap) || apperrors.IsConflict(err) {
			s.metrics.IncBookingConflicts()
			return nil, apperrors.Conflict("slot no longer available", err)
		}
		return nil, err
	}

	s.metrics.IncAppointmentsCreated()
	s.enqueueEvent(ctx, model.EventAppointmentCreated, appointment)
	s.logger.Info("appointment created",
		"appointment_id", appointment.ID.String(),
		"vet_user_id", appointment.VetUserID.String(),
		"starts_at", appointment.StartsAt)

	return appointment, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointmentRepo.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound("appointment", err)
	}
	return appointment, nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.appointmentRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// ConfirmAppointment moves PENDING to CONFIRMED. The conflict check runs
// again, excluding the appointment itself, in case a blocked period landed
// since booking.
func (s *Service) ConfirmAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.transition(ctx, id, model.AppointmentStatusConfirmed, func(a *model.Appointment) error {
		if a.Status != model.AppointmentStatusPending {
			return invalidTransition(a.Status, model.AppointmentStatusConfirmed)
		}
		excludeID := a.ID
		free, err := s.checker.CheckSlotFree(ctx, a.VetUserID, a.StartsAt, a.EndsAt, &excludeID)
		if err != nil {
			return fmt.Errorf("failed to check slot: %w", err)
		}
		if !free {
			s.metrics.IncBookingConflicts()
			return apperrors.Conflict("slot no longer available", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.enqueueEvent(ctx, model.EventAppointmentConfirmed, appointment)
	return appointment, nil
}

// RejectAppointment moves PENDING to REJECTED with a mandatory reason.
func (s *Service) RejectAppointment(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < model.MinRejectionReasonLen {
		return nil, apperrors.Validation(fmt.Sprintf("rejection reason must be at least %d characters", model.MinRejectionReasonLen))
	}

	appointment, err := s.transition(ctx, id, model.AppointmentStatusRejected, func(a *model.Appointment) error {
		if a.Status != model.AppointmentStatusPending {
			return invalidTransition(a.Status, model.AppointmentStatusRejected)
		}
		a.RejectionReason = &reason
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.enqueueEvent(ctx, model.EventAppointmentRejected, appointment)
	return appointment, nil
}

// CancelAppointment moves PENDING or CONFIRMED to CANCELLED.
func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.transition(ctx, id, model.AppointmentStatusCancelled, func(a *model.Appointment) error {
		if a.Status != model.AppointmentStatusPending && a.Status != model.AppointmentStatusConfirmed {
			return invalidTransition(a.Status, model.AppointmentStatusCancelled)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.enqueueEvent(ctx, model.EventAppointmentCancelled, appointment)
	return appointment, nil
}

// CompleteAppointment moves CONFIRMED to COMPLETED, optionally attaching the
// vet's report.
func (s *Service) CompleteAppointment(ctx context.Context, id uuid.UUID, report *string) (*model.Appointment, error) {
	appointment, err := s.transition(ctx, id, model.AppointmentStatusCompleted, func(a *model.Appointment) error {
		if a.Status != model.AppointmentStatusConfirmed {
			return invalidTransition(a.Status, model.AppointmentStatusCompleted)
		}
		if report != nil {
			a.Report = report
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.enqueueEvent(ctx, model.EventAppointmentCompleted, appointment)
	return appointment, nil
}

// transition loads the appointment, runs the per-transition guard, then
// persists the new status.
func (s *Service) transition(ctx context.Context, id uuid.UUID, target model.AppointmentStatus, guard func(*model.Appointment) error) (*model.Appointment, error) {
	appointment, err := s.appointmentRepo.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound("appointment", err)
	}

	if appointment.Status.IsTerminal() {
		return nil, invalidTransition(appointment.Status, target)
	}
	if err := guard(appointment); err != nil {
		return nil, err
	}

	appointment.Status = target
	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.metrics.IncStatusTransition(string(target))
	s.logger.Info("appointment status changed",
		"appointment_id", appointment.ID.String(),
		"status", string(target))

	return appointment, nil
}

func (s *Service) enqueueEvent(ctx context.Context, eventType string, appointment *model.Appointment) {
	payload, err := json.Marshal(appointment)
	if err != nil {
		s.logger.Error(err, "failed to marshal appointment event", "event_type", eventType)
		return
	}
	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		// The booking itself succeeded; a lost event only delays downstream
		// consumers until the next state change.
		s.logger.Error(err, "failed to enqueue outbox event",
			"event_type", eventType,
			"appointment_id", appointment.ID.String())
	}
}

func invalidTransition(from, to model.AppointmentStatus) error {
	return apperrors.InvalidState(fmt.Sprintf("cannot transition appointment from %s to %s", from, to))
}

func mapNotFound(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return fmt.Errorf("failed to get %s: %w", resource, err)
}
