package medication

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
	"github.com/jwalitptl/medtrack-api/internal/service/scheduling"
	"github.com/jwalitptl/medtrack-api/pkg/metrics"
)

type Config struct {
	// RegenerateOnFrequencyChange replaces the dose slots (and the records
	// attached to them) when an update changes frequencyPerDay.
	RegenerateOnFrequencyChange bool
}

type Service struct {
	tx          repository.TxManager
	medications repository.MedicationRepository
	schedules   repository.DoseScheduleRepository
	records     repository.MedicationRecordRepository
	patients    repository.PatientRepository
	scheduler   *scheduling.Scheduler
	clock       clock.Clock
	metrics     *metrics.Metrics
	cfg         Config
}

func NewService(
	tx repository.TxManager,
	medications repository.MedicationRepository,
	schedules repository.DoseScheduleRepository,
	records repository.MedicationRecordRepository,
	patients repository.PatientRepository,
	scheduler *scheduling.Scheduler,
	clk clock.Clock,
	m *metrics.Metrics,
	cfg Config,
) *Service {
	return &Service{
		tx:          tx,
		medications: medications,
		schedules:   schedules,
		records:     records,
		patients:    patients,
		scheduler:   scheduler,
		clock:       clk,
		metrics:     m,
		cfg:         cfg,
	}
}

// Create stores the medication and its generated dose slots in one transaction.
func (s *Service) Create(ctx context.Context, req *model.CreateMedicationRequest) (*model.Medication, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}

	med := req.ToMedication()
	med.CreatedAt = s.clock.Now()

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.medications.Create(ctx, med); err != nil {
			return fmt.Errorf("failed to create medication: %w", err)
		}
		slots, err := s.createSlots(ctx, med)
		if err != nil {
			return err
		}
		med.DoseSchedules = slots
		return nil
	})
	if err != nil {
		return nil, err
	}

	med.MedicationRecords = []model.MedicationRecord{}
	log.Debug().
		Int64("medication_id", med.ID).
		Int("slots", len(med.DoseSchedules)).
		Msg("medication created")
	return med, nil
}

func (s *Service) createSlots(ctx context.Context, med *model.Medication) ([]model.DoseSchedule, error) {
	slots := s.scheduler.GenerateSlots(med)
	if len(slots) == 0 {
		return []model.DoseSchedule{}, nil
	}
	created, err := s.schedules.CreateBatch(ctx, slots)
	if err != nil {
		return nil, fmt.Errorf("failed to create dose schedules: %w", err)
	}
	s.metrics.SlotsGenerated(len(created))
	return created, nil
}

// Get returns the medication with its dose slots and records.
func (s *Service) Get(ctx context.Context, id int64) (*model.Medication, error) {
	med, err := s.medications.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attach(ctx, []*model.Medication{med}); err != nil {
		return nil, err
	}
	return med, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*model.Medication, error) {
	meds, err := s.medications.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if err := s.attach(ctx, meds); err != nil {
		return nil, err
	}
	return meds, nil
}

// attach loads slots and records for all meds with one query each.
func (s *Service) attach(ctx context.Context, meds []*model.Medication) error {
	if len(meds) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(meds))
	byID := make(map[int64]*model.Medication, len(meds))
	for _, m := range meds {
		ids = append(ids, m.ID)
		byID[m.ID] = m
		m.DoseSchedules = []model.DoseSchedule{}
		m.MedicationRecords = []model.MedicationRecord{}
	}

	slots, err := s.schedules.ListByMedications(ctx, ids)
	if err != nil {
		return err
	}
	for _, slot := range slots {
		if m, ok := byID[slot.MedicationID]; ok {
			m.DoseSchedules = append(m.DoseSchedules, slot)
		}
	}

	records, err := s.records.ListByMedications(ctx, ids)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if m, ok := byID[rec.MedicationID]; ok {
			m.MedicationRecords = append(m.MedicationRecords, rec)
		}
	}
	return nil
}

// Update applies the present fields. Slots are only regenerated when the
// frequency changed and RegenerateOnFrequencyChange is set.
func (s *Service) Update(ctx context.Context, id int64, req *model.UpdateMedicationRequest) (*model.Medication, error) {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		med, err := s.medications.Get(ctx, id)
		if err != nil {
			return err
		}

		frequencyChanged := req.Apply(med)
		if err := s.medications.Update(ctx, med); err != nil {
			return err
		}

		if !frequencyChanged || !s.cfg.RegenerateOnFrequencyChange {
			return nil
		}
		if err := s.schedules.DeleteByMedication(ctx, med.ID); err != nil {
			return err
		}
		if _, err := s.createSlots(ctx, med); err != nil {
			return err
		}
		log.Info().
			Int64("medication_id", med.ID).
			Int("frequency_per_day", med.FrequencyPerDay).
			Msg("dose slots regenerated")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.medications.Delete(ctx, id)
}
