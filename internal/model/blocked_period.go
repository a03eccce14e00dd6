package model

import (
	"time"

	"github.com/google/uuid"
)

// BlockedPeriod is a vet-declared interval of unavailability (vacation,
// training). It has no lifecycle beyond create and query.
type BlockedPeriod struct {
	Base
	ClinicID  uuid.UUID `db:"clinic_id" json:"clinic_id"`
	VetUserID uuid.UUID `db:"vet_user_id" json:"vet_user_id"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	EndsAt    time.Time `db:"ends_at" json:"ends_at"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
}

type CreateBlockedPeriodRequest struct {
	ClinicID  uuid.UUID `json:"clinic_id" binding:"required"`
	VetUserID uuid.UUID `json:"vet_user_id" binding:"required"`
	StartsAt  time.Time `json:"starts_at" binding:"required"`
	EndsAt    time.Time `json:"ends_at" binding:"required,gtfield=StartsAt"`
	Reason    *string   `json:"reason,omitempty" binding:"omitempty,max=500"`
}
