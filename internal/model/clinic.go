package model

import (
	"github.com/google/uuid"
)

type Clinic struct {
	Base
	Name     string `db:"name" json:"name"`
	City     string `db:"city" json:"city"`
	Postcode string `db:"postcode" json:"postcode"`
	Status   string `db:"status" json:"status"`
}

// ClinicHours describes the operating window for one weekday. Weekday is
// ISO: 1 = Monday .. 7 = Sunday. Minutes are counted since midnight.
// A clinic with no row for a weekday is closed that day.
type ClinicHours struct {
	ClinicID     uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Weekday      int       `db:"weekday" json:"weekday"`
	OpenMinutes  int       `db:"open_minutes" json:"open_minutes"`
	CloseMinutes int       `db:"close_minutes" json:"close_minutes"`
	SlotMinutes  int       `db:"slot_minutes" json:"slot_minutes"`
}

const DefaultSlotMinutes = 30

type CreateClinicRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	City     string `json:"city" binding:"required,max=100"`
	Postcode string `json:"postcode" binding:"required,max=16"`
}

type UpdateClinicRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=200"`
	City     *string `json:"city" binding:"omitempty,max=100"`
	Postcode *string `json:"postcode" binding:"omitempty,max=16"`
	Status   *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type ClinicHoursEntry struct {
	Weekday      int `json:"weekday" binding:"required,min=1,max=7"`
	OpenMinutes  int `json:"open_minutes" binding:"min=0,max=1439"`
	CloseMinutes int `json:"close_minutes" binding:"required,min=1,max=1440,gtfield=OpenMinutes"`
	SlotMinutes  int `json:"slot_minutes" binding:"omitempty,min=5,max=240"`
}

type SetClinicHoursRequest struct {
	Hours []ClinicHoursEntry `json:"hours" binding:"required,dive"`
}

type ClinicFilters struct {
	City     string
	Postcode string
	Status   string
}
