package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitavet/vitavet-api/internal/model"
	apperrors "github.com/vitavet/vitavet-api/pkg/errors"
)

// BlockedPeriods lists a vet's unavailability intervals intersecting
// [from, to).
func (s *Service) BlockedPeriods(ctx context.Context, vetUserID uuid.UUID, from, to time.Time) ([]*model.BlockedPeriod, error) {
	periods, err := s.blockedRepo.FindInRange(ctx, vetUserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked periods: %w", err)
	}
	return periods, nil
}

// CreateBlockedPeriod records vet unavailability. Existing appointments in
// the interval are untouched; the period only removes future slots.
func (s *Service) CreateBlockedPeriod(ctx context.Context, req *model.CreateBlockedPeriodRequest) (*model.BlockedPeriod, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, apperrors.Validation("ends_at must be after starts_at")
	}

	if _, err := s.clinicRepo.Get(ctx, req.ClinicID); err != nil {
		return nil, mapNotFound("clinic", err)
	}
	vet, err := s.userRepo.Get(ctx, req.VetUserID)
	if err != nil {
		return nil, mapNotFound("vet", err)
	}
	if vet.Role != model.UserRoleVet {
		return nil, apperrors.Validation("vet_user_id does not reference a veterinarian")
	}

	period := &model.BlockedPeriod{
		Base:      model.Base{ID: uuid.New()},
		ClinicID:  req.ClinicID,
		VetUserID: req.VetUserID,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Reason:    req.Reason,
	}
	if err := s.blockedRepo.Create(ctx, period); err != nil {
		return nil, fmt.Errorf("failed to create blocked period: %w", err)
	}

	s.logger.Info("blocked period created",
		"vet_user_id", period.VetUserID.String(),
		"starts_at", period.StartsAt,
		"ends_at", period.EndsAt)

	return period, nil
}
