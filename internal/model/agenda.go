package model

import (
	"time"

	"github.com/google/uuid"
)

// AgendaStatusBlocked is the synthetic status carried by agenda items built
// from blocked periods. It is never stored on an appointment.
const AgendaStatusBlocked = "BLOCKED"

type AgendaRange string

const (
	AgendaRangeDay   AgendaRange = "day"
	AgendaRangeWeek  AgendaRange = "week"
	AgendaRangeMonth AgendaRange = "month"
)

// AgendaItem is the unified read model merging appointments and blocked
// periods for calendar display.
type AgendaItem struct {
	ID            uuid.UUID `json:"id"`
	VetUserID     uuid.UUID `json:"vet_user_id"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	Status        string    `json:"status"`
	AnimalName    string    `json:"animal_name,omitempty"`
	OwnerName     string    `json:"owner_name,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
}

// IsBlocked reports whether the item represents vet unavailability rather
// than a booked appointment.
func (i AgendaItem) IsBlocked() bool {
	return i.Status == AgendaStatusBlocked
}
