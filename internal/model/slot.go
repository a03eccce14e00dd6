package model

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a candidate bookable interval. Slots are computed on demand and
// never persisted; they are recomputed on every availability query.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	VetUserID uuid.UUID `json:"vet_user_id"`
}

// Duration returns the slot length.
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Overlaps applies the half-open interval test, so back-to-back slots do not
// conflict.
func (s Slot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && start.Before(s.End)
}
