package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/internal/repository"
)

type clinicRepository struct {
	BaseRepository
}

func NewClinicRepository(db *sqlx.DB) repository.ClinicRepository {
	return &clinicRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *clinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	query := `
		INSERT INTO clinics (id, name, city, postcode, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	clinic.CreatedAt = time.Now()
	clinic.UpdatedAt = clinic.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		clinic.ID, clinic.Name, clinic.City, clinic.Postcode,
		clinic.Status, clinic.CreatedAt, clinic.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create clinic: %w", err)
	}
	return nil
}

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT id, name, city, postcode, status, created_at, updated_at
		FROM clinics
		WHERE id = $1
	`
	var clinic model.Clinic
	err := r.db.GetContext(ctx, &clinic, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return &clinic, nil
}

func (r *clinicRepository) Update(ctx context.Context, clinic *model.Clinic) error {
	query := `
		UPDATE clinics
		SET name = $1, city = $2, postcode = $3, status = $4, updated_at = $5
		WHERE id = $6
	`
	clinic.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		clinic.Name, clinic.City, clinic.Postcode, clinic.Status,
		clinic.UpdatedAt, clinic.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update clinic: %w", err)
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

func (r *clinicRepository) List(ctx context.Context, filters *model.ClinicFilters) ([]*model.Clinic, error) {
	query := `
		SELECT id, name, city, postcode, status, created_at, updated_at
		FROM clinics
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.City != "" {
		query += fmt.Sprintf(" AND LOWER(city) = LOWER($%d)", argCount)
		args = append(args, filters.City)
		argCount++
	}
	if filters.Postcode != "" {
		query += fmt.Sprintf(" AND postcode = $%d", argCount)
		args = append(args, filters.Postcode)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	query += " ORDER BY name ASC"

	var clinics []*model.Clinic
	err := r.db.SelectContext(ctx, &clinics, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return clinics, nil
}

func (r *clinicRepository) GetHours(ctx context.Context, clinicID uuid.UUID) ([]model.ClinicHours, error) {
	query := `
		SELECT clinic_id, weekday, open_minutes, close_minutes, slot_minutes
		FROM clinic_hours
		WHERE clinic_id = $1
		ORDER BY weekday ASC
	`
	var hours []model.ClinicHours
	err := r.db.SelectContext(ctx, &hours, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic hours: %w", err)
	}
	return hours, nil
}

func (r *clinicRepository) SetHours(ctx context.Context, clinicID uuid.UUID, hours []model.ClinicHours) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM clinic_hours WHERE clinic_id = $1`, clinicID); err != nil {
			return fmt.Errorf("failed to clear clinic hours: %w", err)
		}

		query := `
			INSERT INTO clinic_hours (clinic_id, weekday, open_minutes, close_minutes, slot_minutes)
			VALUES ($1, $2, $3, $4, $5)
		`
		for _, h := range hours {
			if _, err := tx.ExecContext(ctx, query,
				clinicID, h.Weekday, h.OpenMinutes, h.CloseMinutes, h.SlotMinutes,
			); err != nil {
				return fmt.Errorf("failed to insert clinic hours: %w", err)
			}
		}
		return nil
	})
}
