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

type animalRepository struct {
	BaseRepository
}

func NewAnimalRepository(db *sqlx.DB) repository.AnimalRepository {
	return &animalRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *animalRepository) Create(ctx context.Context, animal *model.Animal) error {
	query := `
		INSERT INTO animals (
			id, owner_user_id, clinic_id, name, species, breed, birth_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	animal.CreatedAt = time.Now()
	animal.UpdatedAt = animal.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		animal.ID, animal.OwnerUserID, animal.ClinicID, animal.Name,
		animal.Species, animal.Breed, animal.BirthDate,
		animal.CreatedAt, animal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create animal: %w", err)
	}
	return nil
}

func (r *animalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Animal, error) {
	query := `
		SELECT id, owner_user_id, clinic_id, name, species, breed, birth_date,
			   created_at, updated_at
		FROM animals
		WHERE id = $1
	`
	var animal model.Animal
	err := r.db.GetContext(ctx, &animal, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}
	return &animal, nil
}

func (r *animalRepository) Update(ctx context.Context, animal *model.Animal) error {
	query := `
		UPDATE animals
		SET name = $1, species = $2, breed = $3, birth_date = $4, updated_at = $5
		WHERE id = $6
	`
	animal.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		animal.Name, animal.Species, animal.Breed, animal.BirthDate,
		animal.UpdatedAt, animal.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update animal: %w", err)
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

func (r *animalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete animal: %w", err)
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

func (r *animalRepository) ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]*model.Animal, error) {
	query := `
		SELECT id, owner_user_id, clinic_id, name, species, breed, birth_date,
			   created_at, updated_at
		FROM animals
		WHERE owner_user_id = $1
		ORDER BY name ASC
	`
	var animals []*model.Animal
	err := r.db.SelectContext(ctx, &animals, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}
	return animals, nil
}
