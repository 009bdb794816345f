// Package clinical manages doctors, patients and the assignments between
// them.
package clinical

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
)

type Service struct {
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
}

func NewService(doctors repository.DoctorRepository, patients repository.PatientRepository) *Service {
	return &Service{doctors: doctors, patients: patients}
}

// ListDoctors returns every doctor with its assigned patient ids.
func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.attachPatientIDs(ctx, doctors...); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (s *Service) GetDoctor(ctx context.Context, id int64) (*model.Doctor, error) {
	doctor, err := s.doctors.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachPatientIDs(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *Service) attachPatientIDs(ctx context.Context, doctors ...*model.Doctor) error {
	if len(doctors) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(doctors))
	for _, d := range doctors {
		ids = append(ids, d.ID)
	}
	assigned, err := s.doctors.PatientIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, d := range doctors {
		d.PatientIDs = assigned[d.ID]
		if d.PatientIDs == nil {
			d.PatientIDs = []int64{}
		}
	}
	return nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id int64, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	if err := s.doctors.UpdateDepartment(ctx, id, req.Department); err != nil {
		return nil, err
	}
	return s.GetDoctor(ctx, id)
}

func (s *Service) DeleteDoctor(ctx context.Context, id int64) error {
	return s.doctors.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	return s.patients.List(ctx)
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*model.Patient, error) {
	return s.patients.Get(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, id int64, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(patient)
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// DeletePatient removes the patient together with its medications, side
// effects and assignments.
func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	return s.patients.Delete(ctx, id)
}

// AssignPatient links a patient to a doctor. Assigning twice is a no-op.
func (s *Service) AssignPatient(ctx context.Context, doctorID, patientID int64) error {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return err
	}
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return err
	}
	if err := s.doctors.AssignPatient(ctx, doctorID, patientID); err != nil {
		return err
	}
	log.Info().Int64("doctor_id", doctorID).Int64("patient_id", patientID).Msg("patient assigned")
	return nil
}

func (s *Service) UnassignPatient(ctx context.Context, doctorID, patientID int64) error {
	return s.doctors.UnassignPatient(ctx, doctorID, patientID)
}

func (s *Service) DoctorPatients(ctx context.Context, doctorID int64) ([]*model.Patient, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.doctors.ListPatients(ctx, doctorID)
}
