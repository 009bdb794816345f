package model

import (
	"time"
)

type SideEffect struct {
	ID           int64     `json:"id" db:"id"`
	PatientID    int64     `json:"patientId" db:"patient_id"`
	MedicationID *int64    `json:"medicationId" db:"medication_id"`
	Description  string    `json:"description" db:"description"`
	Severity     *string   `json:"severity" db:"severity"`
	Date         time.Time `json:"date" db:"date"`
	Timestamps

	// MedicationName is filled on reads when the report is linked.
	MedicationName *string `json:"medicationName,omitempty" db:"medication_name"`
}

type ReportSideEffectRequest struct {
	PatientID    int64   `json:"patientId" binding:"required,gt=0"`
	MedicationID *int64  `json:"medicationId" binding:"omitempty,gt=0"`
	Description  string  `json:"description" binding:"required,notblank,max=500"`
	Severity     *string `json:"severity" binding:"omitempty,max=50"`
}
