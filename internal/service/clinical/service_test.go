package clinical

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
)

type fixture struct {
	store     *memory.Store
	svc       *Service
	doctorID  int64
	patientID int64
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Users().Create(ctx,
		&model.User{Username: "drsmith", FullName: "Dr Smith", Role: model.RoleDoctor},
		model.DoctorProfile{Department: "Cardiology"}))
	require.NoError(t, store.Users().Create(ctx,
		&model.User{Username: "jane", FullName: "Jane Doe", Role: model.RolePatient},
		model.PatientProfile{Diagnosis: "arrhythmia"}))

	doctors, err := store.Doctors().List(ctx)
	require.NoError(t, err)
	patients, err := store.Patients().List(ctx)
	require.NoError(t, err)

	return fixture{
		store:     store,
		svc:       NewService(store.Doctors(), store.Patients()),
		doctorID:  doctors[0].ID,
		patientID: patients[0].ID,
	}
}

func TestDoctors_IncludeUserAndPatients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doctors, err := f.svc.ListDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr Smith", doctors[0].FullName)
	assert.Equal(t, "drsmith", doctors[0].Username)
	assert.Empty(t, doctors[0].PatientIDs)
	assert.NotNil(t, doctors[0].PatientIDs)

	require.NoError(t, f.svc.AssignPatient(ctx, f.doctorID, f.patientID))
	doctor, err := f.svc.GetDoctor(ctx, f.doctorID)
	require.NoError(t, err)
	assert.Equal(t, []int64{f.patientID}, doctor.PatientIDs)
}

func TestAssignPatient_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AssignPatient(ctx, f.doctorID, f.patientID))
	require.NoError(t, f.svc.AssignPatient(ctx, f.doctorID, f.patientID))

	patients, err := f.svc.DoctorPatients(ctx, f.doctorID)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Jane Doe", patients[0].FullName)
}

func TestAssignPatient_MissingParty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.True(t, apperrors.Is(f.svc.AssignPatient(ctx, 99, f.patientID), apperrors.KindNotFound))
	assert.True(t, apperrors.Is(f.svc.AssignPatient(ctx, f.doctorID, 99), apperrors.KindNotFound))

	_, err := f.svc.DoctorPatients(ctx, 99)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestUnassignPatient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AssignPatient(ctx, f.doctorID, f.patientID))
	require.NoError(t, f.svc.UnassignPatient(ctx, f.doctorID, f.patientID))

	patients, err := f.svc.DoctorPatients(ctx, f.doctorID)
	require.NoError(t, err)
	assert.Empty(t, patients)

	err = f.svc.UnassignPatient(ctx, f.doctorID, f.patientID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestUpdateDoctor(t *testing.T) {
	f := newFixture(t)

	doctor, err := f.svc.UpdateDoctor(context.Background(), f.doctorID, &model.UpdateDoctorRequest{Department: "Neurology"})
	require.NoError(t, err)
	assert.Equal(t, "Neurology", doctor.Department)

	_, err = f.svc.UpdateDoctor(context.Background(), 99, &model.UpdateDoctorRequest{Department: "x"})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestUpdatePatient_Partial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	discharge := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	patient, err := f.svc.UpdatePatient(ctx, f.patientID, &model.UpdatePatientRequest{DischargeDate: &discharge})
	require.NoError(t, err)
	assert.Equal(t, "arrhythmia", patient.Diagnosis)
	require.NotNil(t, patient.DischargeDate)
	assert.Equal(t, discharge, *patient.DischargeDate)

	diagnosis := "resolved"
	patient, err = f.svc.UpdatePatient(ctx, f.patientID, &model.UpdatePatientRequest{Diagnosis: &diagnosis})
	require.NoError(t, err)
	assert.Equal(t, "resolved", patient.Diagnosis)
	assert.NotNil(t, patient.DischargeDate)
}

func TestDeletePatient_RemovesAssignments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AssignPatient(ctx, f.doctorID, f.patientID))
	require.NoError(t, f.svc.DeletePatient(ctx, f.patientID))

	doctor, err := f.svc.GetDoctor(ctx, f.doctorID)
	require.NoError(t, err)
	assert.Empty(t, doctor.PatientIDs)

	_, err = f.svc.GetPatient(ctx, f.patientID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.True(t, apperrors.Is(f.svc.DeletePatient(ctx, f.patientID), apperrors.KindNotFound))
}

func TestDeleteDoctor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.DeleteDoctor(ctx, f.doctorID))
	_, err := f.svc.GetDoctor(ctx, f.doctorID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	patients, err := f.svc.ListPatients(ctx)
	require.NoError(t, err)
	assert.Len(t, patients, 1)
}
