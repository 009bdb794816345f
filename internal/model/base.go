package model

import (
	"time"
)

// Role is the discriminator stored on every user account
type Role string

const (
	RoleDoctor  Role = "Doctor"
	RolePatient Role = "Patient"
	RoleAdmin   Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RolePatient, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Timestamps contains the creation time shared by all stored rows
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
