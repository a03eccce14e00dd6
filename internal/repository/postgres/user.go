package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, email, display_name, role, clinic_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) ListVetsByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	query := `
		SELECT id, email, display_name, role, clinic_id, created_at, updated_at
		FROM users
		WHERE clinic_id = $1
		AND role = 'VET'
		ORDER BY display_name ASC
	`
	var users []*model.User
	err := r.db.SelectContext(ctx, &users, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vets: %w", err)
	}
	return users, nil
}
