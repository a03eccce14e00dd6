package model

import (
	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleOwner UserRole = "OWNER"
	UserRoleVet   UserRole = "VET"
	UserRoleAdmin UserRole = "ADMIN"
)

// User anchors foreign keys and carries the identity the auth middleware
// resolves from the token. Credential management lives outside this service.
type User struct {
	Base
	Email       string     `db:"email" json:"email"`
	DisplayName string     `db:"display_name" json:"display_name"`
	Role        UserRole   `db:"role" json:"role"`
	ClinicID    *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
}
