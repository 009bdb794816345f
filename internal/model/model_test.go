package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Profile(t *testing.T) {
	p, err := (&RegisterRequest{Diagnosis: "asthma"}).Profile()
	require.NoError(t, err)
	assert.Equal(t, RolePatient, p.Role())
	assert.Equal(t, PatientProfile{Diagnosis: "asthma"}, p)

	_, err = (&RegisterRequest{Role: RolePatient}).Profile()
	assert.ErrorIs(t, err, ErrDiagnosisRequired)

	p, err = (&RegisterRequest{Role: RoleDoctor, Department: " Cardiology "}).Profile()
	require.NoError(t, err)
	assert.Equal(t, DoctorProfile{Department: "Cardiology"}, p)

	_, err = (&RegisterRequest{Role: RoleDoctor}).Profile()
	assert.ErrorIs(t, err, ErrDepartmentRequired)

	p, err = (&RegisterRequest{Role: RoleAdmin}).Profile()
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, p.Role())

	_, err = (&RegisterRequest{Role: "Nurse"}).Profile()
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestUpdateMedicationRequest_Apply(t *testing.T) {
	notes := "with food"
	m := &Medication{Name: "Metformin", Dose: "850mg", FrequencyPerDay: 2, DurationDays: 90, Notes: &notes}

	dose := "1000mg"
	changed := (&UpdateMedicationRequest{Dose: &dose}).Apply(m)
	assert.False(t, changed)
	assert.Equal(t, "Metformin", m.Name)
	assert.Equal(t, "1000mg", m.Dose)
	assert.Equal(t, 2, m.FrequencyPerDay)
	assert.Equal(t, &notes, m.Notes)

	same := 2
	assert.False(t, (&UpdateMedicationRequest{FrequencyPerDay: &same}).Apply(m))

	three := 3
	assert.True(t, (&UpdateMedicationRequest{FrequencyPerDay: &three}).Apply(m))
	assert.Equal(t, 3, m.FrequencyPerDay)
}

func TestUpdatePatientRequest_Apply(t *testing.T) {
	p := &Patient{Diagnosis: "flu"}
	discharge := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	(&UpdatePatientRequest{DischargeDate: &discharge}).Apply(p)
	assert.Equal(t, "flu", p.Diagnosis)
	require.NotNil(t, p.DischargeDate)
	assert.True(t, discharge.Equal(*p.DischargeDate))
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleDoctor.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("Nurse").Valid())
}

func TestMedicationRecordDetail_OmitsMedicationChildren(t *testing.T) {
	med := &Medication{ID: 3, PatientID: 4, Name: "Metformin", Dose: "850mg", FrequencyPerDay: 2}
	d := MedicationRecordDetail{
		MedicationRecord: MedicationRecord{ID: 1, MedicationID: 3, DoseScheduleID: 7, IsTaken: true},
		Medication:       med.Summary(),
	}

	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &out))
	var embedded map[string]interface{}
	require.NoError(t, json.Unmarshal(out["medication"], &embedded))

	assert.Equal(t, "Metformin", embedded["name"])
	assert.NotContains(t, embedded, "doseSchedules")
	assert.NotContains(t, embedded, "medicationRecords")
}
