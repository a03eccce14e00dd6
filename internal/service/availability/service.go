package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/internal/repository"
	apperrors "github.com/vitavet/vitavet-api/pkg/errors"
	"github.com/vitavet/vitavet-api/pkg/metrics"
)

const (
	hoursCacheTTL     = 5 * time.Minute
	hoursCacheCleanup = 15 * time.Minute
)

// Service computes bookable slots for a clinic day. Slots are never
// persisted; every query recomputes them against the current set of live
// appointments and blocked periods.
type Service struct {
	clinicRepo      repository.ClinicRepository
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	blockedRepo     repository.BlockedPeriodRepository
	hoursCache      *cache.Cache
	metrics         *metrics.Metrics
}

func NewService(
	clinicRepo repository.ClinicRepository,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	blockedRepo repository.BlockedPeriodRepository,
	m *metrics.Metrics,
) *Service {
	return &Service{
		clinicRepo:      clinicRepo,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		blockedRepo:     blockedRepo,
		hoursCache:      cache.New(hoursCacheTTL, hoursCacheCleanup),
		metrics:         m,
	}
}

// GenerateSlots returns the free slots for clinicID on the calendar day of
// date, ascending by start time. With a vet given, only that vet's slots are
// computed; otherwise every vet on the clinic's staff contributes. A clinic
// with no operating hours for that weekday yields an empty sequence. Past
// dates are not rejected here.
func (s *Service) GenerateSlots(ctx context.Context, clinicID uuid.UUID, date time.Time, vetUserID *uuid.UUID) ([]model.Slot, error) {
	hours, err := s.hoursFor(ctx, clinicID, isoWeekday(date))
	if err != nil {
		s.metrics.IncAvailabilityRequests("error")
		return nil, err
	}
	if hours == nil {
		s.metrics.IncAvailabilityRequests("closed")
		return []model.Slot{}, nil
	}

	vets, err := s.resolveVets(ctx, clinicID, vetUserID)
	if err != nil {
		s.metrics.IncAvailabilityRequests("error")
		return nil, err
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	windowStart := dayStart.Add(time.Duration(hours.OpenMinutes) * time.Minute)
	windowEnd := dayStart.Add(time.Duration(hours.CloseMinutes) * time.Minute)

	slotMinutes := hours.SlotMinutes
	if slotMinutes <= 0 {
		slotMinutes = model.DefaultSlotMinutes
	}
	slotDur := time.Duration(slotMinutes) * time.Minute

	var slots []model.Slot
	for _, vet := range vets {
		occupied, err := s.occupiedIntervals(ctx, vet.ID, windowStart, windowEnd)
		if err != nil {
			s.metrics.IncAvailabilityRequests("error")
			return nil, err
		}

		for _, candidate := range generateCandidates(windowStart, windowEnd, slotDur, vet.ID) {
			if !overlapsAny(candidate, occupied) {
				slots = append(slots, candidate)
			}
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	s.metrics.IncAvailabilityRequests("ok")
	s.metrics.ObserveSlotsComputed(len(slots))
	if slots == nil {
		slots = []model.Slot{}
	}
	return slots, nil
}

// CheckSlotFree re-runs the overlap test for one vet and interval. The
// scheduler calls this inside its booking critical section.
func (s *Service) CheckSlotFree(ctx context.Context, vetUserID uuid.UUID, startsAt, endsAt time.Time, excludeAppointmentID *uuid.UUID) (bool, error) {
	conflict, err := s.appointmentRepo.CheckConflicts(ctx, vetUserID, startsAt, endsAt, excludeAppointmentID)
	if err != nil {
		return false, fmt.Errorf("failed to check appointment conflicts: %w", err)
	}
	if conflict {
		return false, nil
	}

	blocked, err := s.blockedRepo.HasOverlap(ctx, vetUserID, startsAt, endsAt)
	if err != nil {
		return false, fmt.Errorf("failed to check blocked periods: %w", err)
	}
	return !blocked, nil
}

func (s *Service) hoursFor(ctx context.Context, clinicID uuid.UUID, weekday int) (*model.ClinicHours, error) {
	key := "hours:" + clinicID.String()

	var all []model.ClinicHours
	if cached, found := s.hoursCache.Get(key); found {
		all = cached.([]model.ClinicHours)
	} else {
		if _, err := s.clinicRepo.Get(ctx, clinicID); err != nil {
			if err == repository.ErrNotFound {
				return nil, apperrors.NotFound("clinic", err)
			}
			return nil, fmt.Errorf("failed to get clinic: %w", err)
		}
		hours, err := s.clinicRepo.GetHours(ctx, clinicID)
		if err != nil {
			return nil, fmt.Errorf("failed to get clinic hours: %w", err)
		}
		all = hours
		s.hoursCache.Set(key, all, cache.DefaultExpiration)
	}

	for i := range all {
		if all[i].Weekday == weekday {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (s *Service) resolveVets(ctx context.Context, clinicID uuid.UUID, vetUserID *uuid.UUID) ([]*model.User, error) {
	if vetUserID != nil {
		vet, err := s.userRepo.Get(ctx, *vetUserID)
		if err != nil {
			if err == repository.ErrNotFound {
				return nil, apperrors.NotFound("vet", err)
			}
			return nil, fmt.Errorf("failed to get vet: %w", err)
		}
		return []*model.User{vet}, nil
	}

	vets, err := s.userRepo.ListVetsByClinic(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinic vets: %w", err)
	}
	return vets, nil
}

type interval struct {
	start, end time.Time
}

func (s *Service) occupiedIntervals(ctx context.Context, vetUserID uuid.UUID, from, to time.Time) ([]interval, error) {
	appointments, err := s.appointmentRepo.FindLiveInRange(ctx, vetUserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	blocked, err := s.blockedRepo.FindInRange(ctx, vetUserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocked periods: %w", err)
	}

	occupied := make([]interval, 0, len(appointments)+len(blocked))
	for _, a := range appointments {
		occupied = append(occupied, interval{start: a.StartsAt, end: a.EndsAt})
	}
	for _, b := range blocked {
		occupied = append(occupied, interval{start: b.StartsAt, end: b.EndsAt})
	}
	return occupied, nil
}

func generateCandidates(start, end time.Time, duration time.Duration, vetUserID uuid.UUID) []model.Slot {
	var slots []model.Slot
	for t := start; !t.Add(duration).After(end); t = t.Add(duration) {
		slots = append(slots, model.Slot{
			Start:     t,
			End:       t.Add(duration),
			VetUserID: vetUserID,
		})
	}
	return slots
}

func overlapsAny(slot model.Slot, occupied []interval) bool {
	for _, iv := range occupied {
		if slot.Overlaps(iv.start, iv.end) {
			return true
		}
	}
	return false
}

// isoWeekday maps Go's Sunday-first weekday to ISO numbering, 1=Monday
// through 7=Sunday.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return wd
}
