package model

type User struct {
	ID           int64  `json:"id" db:"id"`
	FullName     string `json:"fullName" db:"full_name"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role"`
	Timestamps
}

// RoleProfile is the per-role extension written alongside a new user.
// Exactly one implementation exists per Role.
type RoleProfile interface {
	Role() Role
}

type DoctorProfile struct {
	Department string
}

func (DoctorProfile) Role() Role { return RoleDoctor }

type PatientProfile struct {
	Diagnosis string
}

func (PatientProfile) Role() Role { return RolePatient }

type AdminProfile struct{}

func (AdminProfile) Role() Role { return RoleAdmin }
