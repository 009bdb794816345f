// Package adherence appends taken/missed observations against dose slots.
package adherence

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
	"github.com/jwalitptl/medtrack-api/pkg/metrics"
)

type Config struct {
	// StrictSlotOwnership rejects slots that belong to another medication.
	StrictSlotOwnership bool
}

type Service struct {
	medications repository.MedicationRepository
	schedules   repository.DoseScheduleRepository
	records     repository.MedicationRecordRepository
	clock       clock.Clock
	metrics     *metrics.Metrics
	cfg         Config
}

func NewService(
	medications repository.MedicationRepository,
	schedules repository.DoseScheduleRepository,
	records repository.MedicationRecordRepository,
	clk clock.Clock,
	m *metrics.Metrics,
	cfg Config,
) *Service {
	return &Service{
		medications: medications,
		schedules:   schedules,
		records:     records,
		clock:       clk,
		metrics:     m,
		cfg:         cfg,
	}
}

// MarkTaken appends a taken record for slotID under medicationID.
func (s *Service) MarkTaken(ctx context.Context, medicationID, slotID int64) (*model.MedicationRecord, error) {
	return s.append(ctx, medicationID, slotID, true)
}

// CreateRecord appends a record with an explicit taken flag. Missed doses
// are recorded with isTaken=false and no takenAt.
func (s *Service) CreateRecord(ctx context.Context, req *model.CreateMedicationRecordRequest) (*model.MedicationRecord, error) {
	return s.append(ctx, req.MedicationID, req.DoseScheduleID, req.IsTaken)
}

func (s *Service) append(ctx context.Context, medicationID, slotID int64, taken bool) (*model.MedicationRecord, error) {
	med, err := s.medications.Get(ctx, medicationID)
	if err != nil {
		return nil, err
	}

	n, err := s.schedules.CountByMedication(ctx, med.ID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperrors.NotFound("dose schedule", nil)
	}

	slot, err := s.schedules.Get(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.MedicationID != med.ID {
		if s.cfg.StrictSlotOwnership {
			return nil, apperrors.BadRequest("dose schedule does not belong to medication", nil)
		}
		log.Warn().
			Int64("medication_id", med.ID).
			Int64("dose_schedule_id", slot.ID).
			Int64("slot_medication_id", slot.MedicationID).
			Msg("recording adherence against a slot of another medication")
	}

	now := s.clock.Now()
	rec := &model.MedicationRecord{
		MedicationID:   med.ID,
		DoseScheduleID: slot.ID,
		RecordDate:     now,
		IsTaken:        taken,
	}
	if taken {
		takenAt := now
		rec.TakenAt = &takenAt
	}
	rec.CreatedAt = now

	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.metrics.RecordAppended(taken)
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.MedicationRecordDetail, error) {
	return s.records.Get(ctx, id)
}

// ListByPatient returns every record of the patient's medications in
// record order.
func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*model.MedicationRecordDetail, error) {
	return s.records.ListByPatient(ctx, patientID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.records.Delete(ctx, id)
}
