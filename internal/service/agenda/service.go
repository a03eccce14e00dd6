package agenda

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/internal/repository"
	apperrors "github.com/vitavet/vitavet-api/pkg/errors"
)

// Service builds the unified agenda read model for one vet: live
// appointments and blocked periods merged into AgendaItems for calendar
// display.
type Service struct {
	appointmentRepo repository.AppointmentRepository
	blockedRepo     repository.BlockedPeriodRepository
}

func NewService(appointmentRepo repository.AppointmentRepository, blockedRepo repository.BlockedPeriodRepository) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		blockedRepo:     blockedRepo,
	}
}

// GetAgenda returns every agenda item for the vet whose interval intersects
// the display window derived from rng and anchor, ascending by start with
// stable ties.
func (s *Service) GetAgenda(ctx context.Context, vetUserID uuid.UUID, rng model.AgendaRange, anchor time.Time) ([]*model.AgendaItem, error) {
	from, to, err := Window(rng, anchor)
	if err != nil {
		return nil, err
	}

	items, err := s.appointmentRepo.FindAgendaItems(ctx, vetUserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}

	blocked, err := s.blockedRepo.FindInRange(ctx, vetUserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocked periods: %w", err)
	}
	for _, b := range blocked {
		item := &model.AgendaItem{
			ID:        b.ID,
			VetUserID: b.VetUserID,
			StartsAt:  b.StartsAt,
			EndsAt:    b.EndsAt,
			Status:    model.AgendaStatusBlocked,
		}
		if b.Reason != nil {
			item.Reason = *b.Reason
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartsAt.Before(items[j].StartsAt)
	})

	if items == nil {
		items = []*model.AgendaItem{}
	}
	return items, nil
}

// Window computes the half-open [from, to) display window for a range and
// anchor date.
//
// day: the 24h window of the anchor's calendar day.
// week: Monday 00:00 of the anchor's ISO week through the following Monday.
// month: the Monday on or before the 1st of the anchor's month, spanning 42
// days so a 6x7 grid stays stable regardless of month length.
func Window(rng model.AgendaRange, anchor time.Time) (time.Time, time.Time, error) {
	dayStart := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())

	switch rng {
	case model.AgendaRangeDay:
		return dayStart, dayStart.AddDate(0, 0, 1), nil
	case model.AgendaRangeWeek:
		monday := mondayOnOrBefore(dayStart)
		return monday, monday.AddDate(0, 0, 7), nil
	case model.AgendaRangeMonth:
		firstOfMonth := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		monday := mondayOnOrBefore(firstOfMonth)
		return monday, monday.AddDate(0, 0, 42), nil
	default:
		return time.Time{}, time.Time{}, apperrors.Validation(fmt.Sprintf("unknown agenda range %q", rng))
	}
}

// mondayOnOrBefore remaps Go's Sunday=0 weekday to ISO numbering (Monday=1,
// Sunday=7) so Monday is consistently the first day.
func mondayOnOrBefore(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return t.AddDate(0, 0, -(wd - 1))
}
