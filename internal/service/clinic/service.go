package clinic

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
	repo repository.ClinicRepository
}

func NewService(repo repository.ClinicRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateClinic(ctx context.Context, req *model.CreateClinicRequest) (*model.Clinic, error) {
	clinic := &model.Clinic{
		Base:     model.Base{ID: uuid.New()},
		Name:     req.Name,
		City:     req.City,
		Postcode: req.Postcode,
		Status:   "active",
	}
	if err := s.repo.Create(ctx, clinic); err != nil {
		return nil, fmt.Errorf("failed to create clinic: %w", err)
	}
	return clinic, nil
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("clinic", err)
		}
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return clinic, nil
}

func (s *Service) UpdateClinic(ctx context.Context, id uuid.UUID, req *model.UpdateClinicRequest) (*model.Clinic, error) {
	clinic, err := s.GetClinic(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.City != nil {
		clinic.City = *req.City
	}
	if req.Postcode != nil {
		clinic.Postcode = *req.Postcode
	}
	if req.Status != nil {
		clinic.Status = *req.Status
	}

	if err := s.repo.Update(ctx, clinic); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("clinic", err)
		}
		return nil, fmt.Errorf("failed to update clinic: %w", err)
	}
	return clinic, nil
}

// SearchClinics filters by city, postcode and status; empty filters list
// every clinic.
func (s *Service) SearchClinics(ctx context.Context, filters *model.ClinicFilters) ([]*model.Clinic, error) {
	clinics, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search clinics: %w", err)
	}
	return clinics, nil
}

func (s *Service) GetHours(ctx context.Context, clinicID uuid.UUID) ([]model.ClinicHours, error) {
	if _, err := s.GetClinic(ctx, clinicID); err != nil {
		return nil, err
	}
	hours, err := s.repo.GetHours(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic hours: %w", err)
	}
	return hours, nil
}

// SetHours replaces the clinic's weekly operating windows. Each entry must
// keep open before close; duplicate weekdays are rejected.
func (s *Service) SetHours(ctx context.Context, clinicID uuid.UUID, req *model.SetClinicHoursRequest) ([]model.ClinicHours, error) {
	if _, err := s.GetClinic(ctx, clinicID); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(req.Hours))
	hours := make([]model.ClinicHours, 0, len(req.Hours))
	for _, entry := range req.Hours {
		if seen[entry.Weekday] {
			return nil, apperrors.Validation(fmt.Sprintf("duplicate weekday %d", entry.Weekday))
		}
		seen[entry.Weekday] = true

		if entry.CloseMinutes <= entry.OpenMinutes {
			return nil, apperrors.Validation(fmt.Sprintf("closing time must be after opening time on weekday %d", entry.Weekday))
		}

		slotMinutes := entry.SlotMinutes
		if slotMinutes == 0 {
			slotMinutes = model.DefaultSlotMinutes
		}
		hours = append(hours, model.ClinicHours{
			ClinicID:     clinicID,
			Weekday:      entry.Weekday,
			OpenMinutes:  entry.OpenMinutes,
			CloseMinutes: entry.CloseMinutes,
			SlotMinutes:  slotMinutes,
		})
	}

	if err := s.repo.SetHours(ctx, clinicID, hours); err != nil {
		return nil, fmt.Errorf("failed to set clinic hours: %w", err)
	}
	return hours, nil
}
