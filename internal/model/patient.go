package model

import (
	"time"
)

type Patient struct {
	ID            int64      `json:"id" db:"id"`
	UserID        int64      `json:"userId" db:"user_id"`
	FullName      string     `json:"fullName" db:"full_name"`
	Diagnosis     string     `json:"diagnosis" db:"diagnosis"`
	DischargeDate *time.Time `json:"dischargeDate" db:"discharge_date"`
	Timestamps
}

// UpdatePatientRequest leaves absent fields unchanged
type UpdatePatientRequest struct {
	Diagnosis     *string    `json:"diagnosis" binding:"omitempty,max=255"`
	DischargeDate *time.Time `json:"dischargeDate"`
}

func (r *UpdatePatientRequest) Apply(p *Patient) {
	if r.Diagnosis != nil {
		p.Diagnosis = *r.Diagnosis
	}
	if r.DischargeDate != nil {
		d := *r.DischargeDate
		p.DischargeDate = &d
	}
}
