package model

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrDepartmentRequired = errors.New("department is required for doctors")
	ErrDiagnosisRequired  = errors.New("diagnosis is required for patients")
	ErrUnknownRole        = errors.New("unknown role")
)

type RegisterRequest struct {
	Username   string `json:"username" binding:"required,notblank,max=50"`
	Password   string `json:"password" binding:"required"`
	FullName   string `json:"fullName" binding:"max=100"`
	Role       Role   `json:"role" binding:"omitempty,role"`
	Department string `json:"department" binding:"max=100"`
	Diagnosis  string `json:"diagnosis" binding:"max=255"`
}

// Profile resolves the role (Patient when empty) and checks the fields
// that role requires.
func (r *RegisterRequest) Profile() (RoleProfile, error) {
	role := r.Role
	if role == "" {
		role = RolePatient
	}

	switch role {
	case RoleDoctor:
		if strings.TrimSpace(r.Department) == "" {
			return nil, ErrDepartmentRequired
		}
		return DoctorProfile{Department: strings.TrimSpace(r.Department)}, nil
	case RolePatient:
		if strings.TrimSpace(r.Diagnosis) == "" {
			return nil, ErrDiagnosisRequired
		}
		return PatientProfile{Diagnosis: strings.TrimSpace(r.Diagnosis)}, nil
	case RoleAdmin:
		return AdminProfile{}, nil
	default:
		return nil, ErrUnknownRole
	}
}

type RegisterResponse struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
}
