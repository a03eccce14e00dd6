package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/internal/repository"
)

// exclusion_violation, raised by the no-overlap constraint on appointments
const pgExclusionViolation = "23P01"

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, clinic_id, animal_id, vet_user_id, type,
			starts_at, ends_at, status, rejection_reason, report,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.ClinicID,
		appointment.AnimalID,
		appointment.VetUserID,
		appointment.Type,
		appointment.StartsAt,
		appointment.EndsAt,
		appointment.Status,
		appointment.RejectionReason,
		appointment.Report,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgExclusionViolation {
			return repository.ErrOverlap
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, clinic_id, animal_id, vet_user_id, type,
			   starts_at, ends_at, status, rejection_reason, report,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET status = $1, rejection_reason = $2, report = $3, updated_at = $4
		WHERE id = $5
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.Status,
		appointment.RejectionReason,
		appointment.Report,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgExclusionViolation {
			return repository.ErrOverlap
		}
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, clinic_id, animal_id, vet_user_id, type,
			   starts_at, ends_at, status, rejection_reason, report,
			   created_at, updated_at
		FROM appointments
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.ClinicID != uuid.Nil {
		query += fmt.Sprintf(" AND clinic_id = $%d", argCount)
		args = append(args, filters.ClinicID)
		argCount++
	}
	if filters.VetUserID != uuid.Nil {
		query += fmt.Sprintf(" AND vet_user_id = $%d", argCount)
		args = append(args, filters.VetUserID)
		argCount++
	}
	if filters.AnimalID != uuid.Nil {
		query += fmt.Sprintf(" AND animal_id = $%d", argCount)
		args = append(args, filters.AnimalID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.From.IsZero() {
		query += fmt.Sprintf(" AND ends_at > $%d", argCount)
		args = append(args, filters.From)
		argCount++
	}
	if !filters.To.IsZero() {
		query += fmt.Sprintf(" AND starts_at < $%d", argCount)
		args = append(args, filters.To)
		argCount++
	}

	query += " ORDER BY starts_at ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindLiveInRange(ctx context.Context, vetUserID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT id, clinic_id, animal_id, vet_user_id, type,
			   starts_at, ends_at, status, rejection_reason, report,
			   created_at, updated_at
		FROM appointments
		WHERE vet_user_id = $1
		AND status NOT IN ('CANCELLED', 'REJECTED')
		AND starts_at < $3
		AND ends_at > $2
		ORDER BY starts_at ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, vetUserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to find live appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CheckConflicts(ctx context.Context, vetUserID uuid.UUID, startsAt, endsAt time.Time, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE vet_user_id = $1
			AND status NOT IN ('CANCELLED', 'REJECTED')
			AND starts_at < $3
			AND ends_at > $2
	`
	args := []interface{}{vetUserID, startsAt, endsAt}

	if excludeID != nil {
		query += " AND id != $4"
		args = append(args, *excludeID)
	}

	query += ")"

	var hasConflict bool
	err := r.db.GetContext(ctx, &hasConflict, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check conflicts: %w", err)
	}
	return hasConflict, nil
}

func (r *appointmentRepository) FindAgendaItems(ctx context.Context, vetUserID uuid.UUID, from, to time.Time) ([]*model.AgendaItem, error) {
	query := `
		SELECT a.id AS id, a.vet_user_id, a.starts_at, a.ends_at,
			   a.status, an.name AS animal_name, u.display_name AS owner_name
		FROM appointments a
		JOIN animals an ON an.id = a.animal_id
		JOIN users u ON u.id = an.owner_user_id
		WHERE a.vet_user_id = $1
		AND a.status NOT IN ('CANCELLED', 'REJECTED')
		AND a.starts_at < $3
		AND a.ends_at > $2
		ORDER BY a.starts_at ASC
	`
	rows, err := r.db.QueryxContext(ctx, query, vetUserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query agenda appointments: %w", err)
	}
	defer rows.Close()

	var items []*model.AgendaItem
	for rows.Next() {
		var row struct {
			ID         uuid.UUID `db:"id"`
			VetUserID  uuid.UUID `db:"vet_user_id"`
			StartsAt   time.Time `db:"starts_at"`
			EndsAt     time.Time `db:"ends_at"`
			Status     string    `db:"status"`
			AnimalName string    `db:"animal_name"`
			OwnerName  string    `db:"owner_name"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan agenda row: %w", err)
		}
		id := row.ID
		items = append(items, &model.AgendaItem{
			ID:            row.ID,
			VetUserID:     row.VetUserID,
			StartsAt:      row.StartsAt,
			EndsAt:        row.EndsAt,
			Status:        row.Status,
			AnimalName:    row.AnimalName,
			OwnerName:     row.OwnerName,
			AppointmentID: &id,
		})
	}
	return items, rows.Err()
}

func (r *appointmentRepository) FindDueForReminder(ctx context.Context, from, to time.Time) ([]*model.ReminderCandidate, error) {
	query := `
		SELECT a.id AS appointment_id, a.starts_at,
			   u.email AS owner_email, u.display_name AS owner_name,
			   an.name AS animal_name, c.name AS clinic_name
		FROM appointments a
		JOIN animals an ON an.id = a.animal_id
		JOIN users u ON u.id = an.owner_user_id
		JOIN clinics c ON c.id = a.clinic_id
		WHERE a.status = 'CONFIRMED'
		AND a.reminded_at IS NULL
		AND a.starts_at >= $1
		AND a.starts_at < $2
		ORDER BY a.starts_at ASC
	`
	var candidates []*model.ReminderCandidate
	err := r.db.SelectContext(ctx, &candidates, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to find reminder candidates: %w", err)
	}
	return candidates, nil
}

func (r *appointmentRepository) MarkReminded(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE appointments SET reminded_at = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark appointment reminded: %w", err)
	}
	return nil
}
