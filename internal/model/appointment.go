package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusRejected  AppointmentStatus = "REJECTED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
)

// IsLive reports whether the appointment still occupies the vet's time.
func (s AppointmentStatus) IsLive() bool {
	return s != AppointmentStatusCancelled && s != AppointmentStatusRejected
}

// IsTerminal reports whether no further transition is allowed from s.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentStatusRejected, AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

// MinRejectionReasonLen is the shortest rejection reason clinic staff may give.
const MinRejectionReasonLen = 10

type Appointment struct {
	Base
	ClinicID        uuid.UUID         `db:"clinic_id" json:"clinic_id"`
	AnimalID        uuid.UUID         `db:"animal_id" json:"animal_id"`
	VetUserID       uuid.UUID         `db:"vet_user_id" json:"vet_user_id"`
	Type            *string           `db:"type" json:"type,omitempty"`
	StartsAt        time.Time         `db:"starts_at" json:"starts_at"`
	EndsAt          time.Time         `db:"ends_at" json:"ends_at"`
	Status          AppointmentStatus `db:"status" json:"status"`
	RejectionReason *string           `db:"rejection_reason" json:"rejection_reason,omitempty"`
	Report          *string           `db:"report" json:"report,omitempty"`
}

type CreateAppointmentRequest struct {
	ClinicID  uuid.UUID `json:"clinic_id" binding:"required"`
	AnimalID  uuid.UUID `json:"animal_id" binding:"required"`
	VetUserID uuid.UUID `json:"vet_user_id" binding:"required"`
	StartsAt  time.Time `json:"starts_at" binding:"required"`
	Type      *string   `json:"type,omitempty" binding:"omitempty,max=100"`
}

type RejectAppointmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CompleteAppointmentRequest struct {
	Report *string `json:"report,omitempty" binding:"omitempty,max=5000"`
}

type AppointmentFilters struct {
	ClinicID  uuid.UUID
	VetUserID uuid.UUID
	AnimalID  uuid.UUID
	Status    AppointmentStatus
	From      time.Time
	To        time.Time
}
