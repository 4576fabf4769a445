package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user profile role.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// UserProfile links an identity-provider subject to a local profile. Profiles
// are provisioned with the customer role on first authenticated request;
// admin promotion happens out of band.
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	AuthID    string    `json:"-"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
