package animal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/internal/repository"
	apperrors "github.com/vitavet/vitavet-api/pkg/errors"
)

type Service struct {
	repo     repository.AnimalRepository
	userRepo repository.UserRepository
}

func NewService(repo repository.AnimalRepository, userRepo repository.UserRepository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

func (s *Service) CreateAnimal(ctx context.Context, req *model.CreateAnimalRequest) (*model.Animal, error) {
	if _, err := s.userRepo.Get(ctx, req.OwnerUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("owner", err)
		}
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}

	animal := &model.Animal{
		Base:        model.Base{ID: uuid.New()},
		OwnerUserID: req.OwnerUserID,
		ClinicID:    req.ClinicID,
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		BirthDate:   req.BirthDate,
	}
	if err := s.repo.Create(ctx, animal); err != nil {
		return nil, fmt.Errorf("failed to create animal: %w", err)
	}
	return animal, nil
}

func (s *Service) GetAnimal(ctx context.Context, id uuid.UUID) (*model.Animal, error) {
	animal, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("animal", err)
		}
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}
	return animal, nil
}

func (s *Service) UpdateAnimal(ctx context.Context, id uuid.UUID, req *model.UpdateAnimalRequest) (*model.Animal, error) {
	animal, err := s.GetAnimal(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		animal.Name = *req.Name
	}
	if req.Species != nil {
		animal.Species = *req.Species
	}
	if req.Breed != nil {
		animal.Breed = req.Breed
	}
	if req.BirthDate != nil {
		animal.BirthDate = req.BirthDate
	}

	if err := s.repo.Update(ctx, animal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("animal", err)
		}
		return nil, fmt.Errorf("failed to update animal: %w", err)
	}
	return animal, nil
}

func (s *Service) DeleteAnimal(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("animal", err)
		}
		return fmt.Errorf("failed to delete animal: %w", err)
	}
	return nil
}

func (s *Service) ListAnimalsByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]*model.Animal, error) {
	animals, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}
	return animals, nil
}
