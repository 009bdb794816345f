package model

import (
	"time"
)

type Medication struct {
	ID              int64     `json:"id" db:"id"`
	PatientID       int64     `json:"patientId" db:"patient_id"`
	Name            string    `json:"name" db:"name"`
	Dose            string    `json:"dose" db:"dose"`
	FrequencyPerDay int       `json:"frequencyPerDay" db:"frequency_per_day"`
	DurationDays    int       `json:"durationDays" db:"duration_days"`
	StartDate       time.Time `json:"startDate" db:"start_date"`
	EndDate         time.Time `json:"endDate" db:"end_date"`
	Notes           *string   `json:"notes" db:"notes"`
	Timestamps

	DoseSchedules     []DoseSchedule     `json:"doseSchedules" db:"-"`
	MedicationRecords []MedicationRecord `json:"medicationRecords" db:"-"`
}

// MedicationSummary is a medication without its slots and records, used
// where it is embedded in another resource.
type MedicationSummary struct {
	ID              int64     `json:"id" db:"id"`
	PatientID       int64     `json:"patientId" db:"patient_id"`
	Name            string    `json:"name" db:"name"`
	Dose            string    `json:"dose" db:"dose"`
	FrequencyPerDay int       `json:"frequencyPerDay" db:"frequency_per_day"`
	DurationDays    int       `json:"durationDays" db:"duration_days"`
	StartDate       time.Time `json:"startDate" db:"start_date"`
	EndDate         time.Time `json:"endDate" db:"end_date"`
	Notes           *string   `json:"notes" db:"notes"`
	Timestamps
}

func (m *Medication) Summary() *MedicationSummary {
	return &MedicationSummary{
		ID:              m.ID,
		PatientID:       m.PatientID,
		Name:            m.Name,
		Dose:            m.Dose,
		FrequencyPerDay: m.FrequencyPerDay,
		DurationDays:    m.DurationDays,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		Notes:           m.Notes,
		Timestamps:      m.Timestamps,
	}
}

// DoseSchedule is one expected administration time (a dose slot).
type DoseSchedule struct {
	ID            int64     `json:"id" db:"id"`
	MedicationID  int64     `json:"medicationId" db:"medication_id"`
	ScheduledTime time.Time `json:"scheduledTime" db:"scheduled_time"`
	Notes         *string   `json:"notes" db:"notes"`
}

type CreateMedicationRequest struct {
	PatientID       int64     `json:"patientId" binding:"required,gt=0"`
	Name            string    `json:"name" binding:"required,notblank,max=100"`
	Dose            string    `json:"dose" binding:"required,notblank,max=50"`
	FrequencyPerDay int       `json:"frequencyPerDay"`
	DurationDays    int       `json:"durationDays"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	Notes           *string   `json:"notes" binding:"omitempty,max=255"`
}

func (r *CreateMedicationRequest) ToMedication() *Medication {
	return &Medication{
		PatientID:       r.PatientID,
		Name:            r.Name,
		Dose:            r.Dose,
		FrequencyPerDay: r.FrequencyPerDay,
		DurationDays:    r.DurationDays,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Notes:           r.Notes,
	}
}

// UpdateMedicationRequest leaves absent fields unchanged
type UpdateMedicationRequest struct {
	Name            *string    `json:"name" binding:"omitempty,notblank,max=100"`
	Dose            *string    `json:"dose" binding:"omitempty,notblank,max=50"`
	FrequencyPerDay *int       `json:"frequencyPerDay"`
	DurationDays    *int       `json:"durationDays"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	Notes           *string    `json:"notes" binding:"omitempty,max=255"`
}

// Apply copies the present fields onto m and reports whether the
// frequency changed.
func (r *UpdateMedicationRequest) Apply(m *Medication) (frequencyChanged bool) {
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.Dose != nil {
		m.Dose = *r.Dose
	}
	if r.FrequencyPerDay != nil {
		frequencyChanged = *r.FrequencyPerDay != m.FrequencyPerDay
		m.FrequencyPerDay = *r.FrequencyPerDay
	}
	if r.DurationDays != nil {
		m.DurationDays = *r.DurationDays
	}
	if r.StartDate != nil {
		m.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		m.EndDate = *r.EndDate
	}
	if r.Notes != nil {
		m.Notes = r.Notes
	}
	return frequencyChanged
}

type MarkTakenRequest struct {
	DoseScheduleID int64 `json:"doseScheduleId" binding:"required,gt=0"`
}
