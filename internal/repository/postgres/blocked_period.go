package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/internal/repository"
)

type blockedPeriodRepository struct {
	BaseRepository
}

func NewBlockedPeriodRepository(db *sqlx.DB) repository.BlockedPeriodRepository {
	return &blockedPeriodRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *blockedPeriodRepository) Create(ctx context.Context, period *model.BlockedPeriod) error {
	query := `
		INSERT INTO blocked_periods (
			id, clinic_id, vet_user_id, starts_at, ends_at, reason,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	period.CreatedAt = time.Now()
	period.UpdatedAt = period.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		period.ID,
		period.ClinicID,
		period.VetUserID,
		period.StartsAt,
		period.EndsAt,
		period.Reason,
		period.CreatedAt,
		period.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create blocked period: %w", err)
	}
	return nil
}

func (r *blockedPeriodRepository) FindInRange(ctx context.Context, vetUserID uuid.UUID, from, to time.Time) ([]*model.BlockedPeriod, error) {
	query := `
		SELECT id, clinic_id, vet_user_id, starts_at, ends_at, reason,
			   created_at, updated_at
		FROM blocked_periods
		WHERE vet_user_id = $1
		AND starts_at < $3
		AND ends_at > $2
		ORDER BY starts_at ASC
	`
	var periods []*model.BlockedPeriod
	err := r.db.SelectContext(ctx, &periods, query, vetUserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to find blocked periods: %w", err)
	}
	return periods, nil
}

func (r *blockedPeriodRepository) HasOverlap(ctx context.Context, vetUserID uuid.UUID, startsAt, endsAt time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM blocked_periods
			WHERE vet_user_id = $1
			AND starts_at < $3
			AND ends_at > $2
		)
	`
	var overlaps bool
	err := r.db.GetContext(ctx, &overlaps, query, vetUserID, startsAt, endsAt)
	if err != nil {
		return false, fmt.Errorf("failed to check blocked periods: %w", err)
	}
	return overlaps, nil
}
