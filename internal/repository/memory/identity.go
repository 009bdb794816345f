package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jwalitptl/medtrack-api/internal/model"
	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
)

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, user *model.User, profile model.RoleProfile) error {
	defer r.s.write(ctx)()

	for _, u := range r.s.t.users {
		if u.Username == user.Username {
			return apperrors.Conflict("username already exists", nil)
		}
	}

	switch profile.(type) {
	case model.DoctorProfile, model.PatientProfile, model.AdminProfile:
	default:
		return fmt.Errorf("unsupported role profile %T", profile)
	}

	user.ID = r.s.nextID("users")
	r.s.t.users[user.ID] = *user

	switch p := profile.(type) {
	case model.DoctorProfile:
		id := r.s.nextID("doctors")
		d := model.Doctor{ID: id, UserID: user.ID, Department: p.Department}
		d.CreatedAt = user.CreatedAt
		r.s.t.doctors[id] = d
	case model.PatientProfile:
		id := r.s.nextID("patients")
		pt := model.Patient{ID: id, UserID: user.ID, Diagnosis: p.Diagnosis}
		pt.CreatedAt = user.CreatedAt
		r.s.t.patients[id] = pt
	}
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.t.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.t.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

type doctorRepository struct{ s *Store }

func (r *doctorRepository) withUser(d model.Doctor) *model.Doctor {
	if u, ok := r.s.t.users[d.UserID]; ok {
		d.FullName = u.FullName
		d.Username = u.Username
	}
	return &d
}

func (r *doctorRepository) List(_ context.Context) ([]*model.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	doctors := make([]*model.Doctor, 0, len(r.s.t.doctors))
	for _, d := range r.s.t.doctors {
		doctors = append(doctors, r.withUser(d))
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].ID < doctors[j].ID })
	return doctors, nil
}

func (r *doctorRepository) Get(_ context.Context, id int64) (*model.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.t.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return r.withUser(d), nil
}

func (r *doctorRepository) UpdateDepartment(ctx context.Context, id int64, department string) error {
	defer r.s.write(ctx)()

	d, ok := r.s.t.doctors[id]
	if !ok {
		return apperrors.NotFound("doctor", nil)
	}
	d.Department = department
	r.s.t.doctors[id] = d
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id int64) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.doctors[id]; !ok {
		return apperrors.NotFound("doctor", nil)
	}
	r.s.deleteDoctorLocked(id)
	return nil
}

func (r *doctorRepository) AssignPatient(ctx context.Context, doctorID, patientID int64) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.doctors[doctorID]; !ok {
		return apperrors.NotFound("referenced doctor", nil)
	}
	if _, ok := r.s.t.patients[patientID]; !ok {
		return apperrors.NotFound("referenced patient", nil)
	}
	r.s.t.assignments[assignment{doctorID, patientID}] = struct{}{}
	return nil
}

func (r *doctorRepository) UnassignPatient(ctx context.Context, doctorID, patientID int64) error {
	defer r.s.write(ctx)()

	key := assignment{doctorID, patientID}
	if _, ok := r.s.t.assignments[key]; !ok {
		return apperrors.NotFound("assignment", nil)
	}
	delete(r.s.t.assignments, key)
	return nil
}

func (r *doctorRepository) ListPatients(_ context.Context, doctorID int64) ([]*model.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	patients := []*model.Patient{}
	for a := range r.s.t.assignments {
		if a.doctorID != doctorID {
			continue
		}
		if p, ok := r.s.t.patients[a.patientID]; ok {
			patients = append(patients, withPatientUser(r.s, p))
		}
	}
	sort.Slice(patients, func(i, j int) bool { return patients[i].ID < patients[j].ID })
	return patients, nil
}

func (r *doctorRepository) PatientIDs(_ context.Context, doctorIDs []int64) (map[int64][]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	want := int64Set(doctorIDs)
	result := make(map[int64][]int64, len(doctorIDs))
	for a := range r.s.t.assignments {
		if want[a.doctorID] {
			result[a.doctorID] = append(result[a.doctorID], a.patientID)
		}
	}
	for id := range result {
		ids := result[id]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return result, nil
}

type patientRepository struct{ s *Store }

func withPatientUser(s *Store, p model.Patient) *model.Patient {
	if u, ok := s.t.users[p.UserID]; ok {
		p.FullName = u.FullName
	}
	return &p
}

func (r *patientRepository) List(_ context.Context) ([]*model.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	patients := make([]*model.Patient, 0, len(r.s.t.patients))
	for _, p := range r.s.t.patients {
		patients = append(patients, withPatientUser(r.s, p))
	}
	sort.Slice(patients, func(i, j int) bool { return patients[i].ID < patients[j].ID })
	return patients, nil
}

func (r *patientRepository) Get(_ context.Context, id int64) (*model.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.t.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	return withPatientUser(r.s, p), nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	defer r.s.write(ctx)()

	p, ok := r.s.t.patients[patient.ID]
	if !ok {
		return apperrors.NotFound("patient", nil)
	}
	p.Diagnosis = patient.Diagnosis
	p.DischargeDate = patient.DischargeDate
	r.s.t.patients[p.ID] = p
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.patients[id]; !ok {
		return apperrors.NotFound("patient", nil)
	}
	r.s.deletePatientLocked(id)
	return nil
}
