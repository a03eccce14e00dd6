package model

import (
	"time"

	"github.com/google/uuid"
)

// ReminderCandidate is the denormalized row the reminder worker needs to
// email an owner about an upcoming confirmed appointment.
type ReminderCandidate struct {
	AppointmentID uuid.UUID `db:"appointment_id"`
	StartsAt      time.Time `db:"starts_at"`
	OwnerEmail    string    `db:"owner_email"`
	OwnerName     string    `db:"owner_name"`
	AnimalName    string    `db:"animal_name"`
	ClinicName    string    `db:"clinic_name"`
}
