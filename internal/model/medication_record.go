package model

import (
	"time"
)

// MedicationRecord is one append-only adherence observation for a dose slot.
type MedicationRecord struct {
	ID             int64      `json:"id" db:"id"`
	MedicationID   int64      `json:"medicationId" db:"medication_id"`
	DoseScheduleID int64      `json:"doseScheduleId" db:"dose_schedule_id"`
	RecordDate     time.Time  `json:"recordDate" db:"record_date"`
	IsTaken        bool       `json:"isTaken" db:"is_taken"`
	TakenAt        *time.Time `json:"takenAt" db:"taken_at"`
	Timestamps
}

// MedicationRecordDetail is a record joined with its medication and slot.
type MedicationRecordDetail struct {
	MedicationRecord
	Medication   *MedicationSummary `json:"medication"`
	DoseSchedule *DoseSchedule      `json:"doseSchedule"`
}

type CreateMedicationRecordRequest struct {
	MedicationID   int64 `json:"medicationId" binding:"required,gt=0"`
	DoseScheduleID int64 `json:"doseScheduleId" binding:"required,gt=0"`
	IsTaken        bool  `json:"isTaken"`
}
