package sideeffect

import (
	"context"

	"github.com/benbjohnson/clock"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
	"github.com/jwalitptl/medtrack-api/pkg/metrics"
)

type Service struct {
	sideEffects repository.SideEffectRepository
	patients    repository.PatientRepository
	medications repository.MedicationRepository
	clock       clock.Clock
	metrics     *metrics.Metrics
}

func NewService(
	sideEffects repository.SideEffectRepository,
	patients repository.PatientRepository,
	medications repository.MedicationRepository,
	clk clock.Clock,
	m *metrics.Metrics,
) *Service {
	return &Service{
		sideEffects: sideEffects,
		patients:    patients,
		medications: medications,
		clock:       clk,
		metrics:     m,
	}
}

// Report logs a side effect dated now, optionally linked to a medication.
func (s *Service) Report(ctx context.Context, req *model.ReportSideEffectRequest) (*model.SideEffect, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}
	if req.MedicationID != nil {
		if _, err := s.medications.Get(ctx, *req.MedicationID); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	se := &model.SideEffect{
		PatientID:    req.PatientID,
		MedicationID: req.MedicationID,
		Description:  req.Description,
		Severity:     req.Severity,
		Date:         now,
	}
	se.CreatedAt = now

	if err := s.sideEffects.Create(ctx, se); err != nil {
		return nil, err
	}
	s.metrics.SideEffectReported()
	return s.sideEffects.Get(ctx, se.ID)
}

// ListByPatient returns the patient's reports, newest first.
func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*model.SideEffect, error) {
	return s.sideEffects.ListByPatient(ctx, patientID)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.SideEffect, error) {
	return s.sideEffects.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.sideEffects.Delete(ctx, id)
}
