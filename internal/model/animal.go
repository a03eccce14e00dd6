package model

import (
	"time"

	"github.com/google/uuid"
)

type Animal struct {
	Base
	OwnerUserID uuid.UUID  `db:"owner_user_id" json:"owner_user_id"`
	ClinicID    uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	Name        string     `db:"name" json:"name"`
	Species     string     `db:"species" json:"species"`
	Breed       *string    `db:"breed" json:"breed,omitempty"`
	BirthDate   *time.Time `db:"birth_date" json:"birth_date,omitempty"`
}

type CreateAnimalRequest struct {
	OwnerUserID uuid.UUID  `json:"owner_user_id" binding:"required"`
	ClinicID    uuid.UUID  `json:"clinic_id" binding:"required"`
	Name        string     `json:"name" binding:"required,max=100"`
	Species     string     `json:"species" binding:"required,max=50"`
	Breed       *string    `json:"breed" binding:"omitempty,max=100"`
	BirthDate   *time.Time `json:"birth_date"`
}

type UpdateAnimalRequest struct {
	Name      *string    `json:"name" binding:"omitempty,max=100"`
	Species   *string    `json:"species" binding:"omitempty,max=50"`
	Breed     *string    `json:"breed" binding:"omitempty,max=100"`
	BirthDate *time.Time `json:"birth_date"`
}
