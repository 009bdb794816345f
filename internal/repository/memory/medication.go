package memory

import (
	"context"
	"sort"

	"github.com/jwalitptl/medtrack-api/internal/model"
	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
)

type medicationRepository struct{ s *Store }

func (r *medicationRepository) Create(ctx context.Context, m *model.Medication) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.patients[m.PatientID]; !ok {
		return apperrors.NotFound("referenced patient", nil)
	}
	m.ID = r.s.nextID("medications")
	stored := *m
	stored.DoseSchedules = nil
	stored.MedicationRecords = nil
	r.s.t.medications[m.ID] = stored
	return nil
}

func (r *medicationRepository) Get(_ context.Context, id int64) (*model.Medication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.t.medications[id]
	if !ok {
		return nil, apperrors.NotFound("medication", nil)
	}
	return &m, nil
}

func (r *medicationRepository) ListByPatient(_ context.Context, patientID int64) ([]*model.Medication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	meds := []*model.Medication{}
	for _, m := range r.s.t.medications {
		if m.PatientID == patientID {
			m := m
			meds = append(meds, &m)
		}
	}
	sort.Slice(meds, func(i, j int) bool { return meds[i].ID < meds[j].ID })
	return meds, nil
}

func (r *medicationRepository) Update(ctx context.Context, m *model.Medication) error {
	defer r.s.write(ctx)()

	existing, ok := r.s.t.medications[m.ID]
	if !ok {
		return apperrors.NotFound("medication", nil)
	}
	existing.Name = m.Name
	existing.Dose = m.Dose
	existing.FrequencyPerDay = m.FrequencyPerDay
	existing.DurationDays = m.DurationDays
	existing.StartDate = m.StartDate
	existing.EndDate = m.EndDate
	existing.Notes = m.Notes
	r.s.t.medications[m.ID] = existing
	return nil
}

func (r *medicationRepository) Delete(ctx context.Context, id int64) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.medications[id]; !ok {
		return apperrors.NotFound("medication", nil)
	}
	r.s.deleteMedicationLocked(id)
	return nil
}

type doseScheduleRepository struct{ s *Store }

func (r *doseScheduleRepository) CreateBatch(ctx context.Context, schedules []model.DoseSchedule) ([]model.DoseSchedule, error) {
	defer r.s.write(ctx)()

	for _, slot := range schedules {
		if _, ok := r.s.t.medications[slot.MedicationID]; !ok {
			return nil, apperrors.NotFound("referenced medication", nil)
		}
	}

	created := make([]model.DoseSchedule, 0, len(schedules))
	for _, slot := range schedules {
		slot.ID = r.s.nextID("schedules")
		r.s.t.schedules[slot.ID] = slot
		created = append(created, slot)
	}
	return created, nil
}

func (r *doseScheduleRepository) Get(_ context.Context, id int64) (*model.DoseSchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.t.schedules[id]
	if !ok {
		return nil, apperrors.NotFound("dose schedule", nil)
	}
	return &slot, nil
}

func (r *doseScheduleRepository) ListByMedications(_ context.Context, medicationIDs []int64) ([]model.DoseSchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	want := int64Set(medicationIDs)
	slots := []model.DoseSchedule{}
	for _, slot := range r.s.t.schedules {
		if want[slot.MedicationID] {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].MedicationID != slots[j].MedicationID {
			return slots[i].MedicationID < slots[j].MedicationID
		}
		if !slots[i].ScheduledTime.Equal(slots[j].ScheduledTime) {
			return slots[i].ScheduledTime.Before(slots[j].ScheduledTime)
		}
		return slots[i].ID < slots[j].ID
	})
	return slots, nil
}

func (r *doseScheduleRepository) CountByMedication(_ context.Context, medicationID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, slot := range r.s.t.schedules {
		if slot.MedicationID == medicationID {
			n++
		}
	}
	return n, nil
}

func (r *doseScheduleRepository) DeleteByMedication(ctx context.Context, medicationID int64) error {
	defer r.s.write(ctx)()

	for id, slot := range r.s.t.schedules {
		if slot.MedicationID == medicationID {
			r.s.deleteScheduleLocked(id)
		}
	}
	return nil
}

type medicationRecordRepository struct{ s *Store }

func (r *medicationRecordRepository) Create(ctx context.Context, rec *model.MedicationRecord) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.medications[rec.MedicationID]; !ok {
		return apperrors.NotFound("referenced medication", nil)
	}
	if _, ok := r.s.t.schedules[rec.DoseScheduleID]; !ok {
		return apperrors.NotFound("referenced dose schedule", nil)
	}
	rec.ID = r.s.nextID("records")
	r.s.t.records[rec.ID] = *rec
	return nil
}

func (r *medicationRecordRepository) detail(rec model.MedicationRecord) *model.MedicationRecordDetail {
	d := &model.MedicationRecordDetail{MedicationRecord: rec}
	if m, ok := r.s.t.medications[rec.MedicationID]; ok {
		d.Medication = m.Summary()
	}
	if slot, ok := r.s.t.schedules[rec.DoseScheduleID]; ok {
		d.DoseSchedule = &slot
	}
	return d
}

func (r *medicationRecordRepository) Get(_ context.Context, id int64) (*model.MedicationRecordDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.t.records[id]
	if !ok {
		return nil, apperrors.NotFound("medication record", nil)
	}
	return r.detail(rec), nil
}

func sortRecords(records []model.MedicationRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].RecordDate.Equal(records[j].RecordDate) {
			return records[i].RecordDate.Before(records[j].RecordDate)
		}
		return records[i].ID < records[j].ID
	})
}

func (r *medicationRecordRepository) ListByMedications(_ context.Context, medicationIDs []int64) ([]model.MedicationRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	want := int64Set(medicationIDs)
	records := []model.MedicationRecord{}
	for _, rec := range r.s.t.records {
		if want[rec.MedicationID] {
			records = append(records, rec)
		}
	}
	sortRecords(records)
	return records, nil
}

func (r *medicationRecordRepository) ListByPatient(_ context.Context, patientID int64) ([]*model.MedicationRecordDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var records []model.MedicationRecord
	for _, rec := range r.s.t.records {
		if m, ok := r.s.t.medications[rec.MedicationID]; ok && m.PatientID == patientID {
			records = append(records, rec)
		}
	}
	sortRecords(records)

	details := make([]*model.MedicationRecordDetail, 0, len(records))
	for _, rec := range records {
		details = append(details, r.detail(rec))
	}
	return details, nil
}

func (r *medicationRecordRepository) Delete(ctx context.Context, id int64) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.records[id]; !ok {
		return apperrors.NotFound("medication record", nil)
	}
	delete(r.s.t.records, id)
	return nil
}
