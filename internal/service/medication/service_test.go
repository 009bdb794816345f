package medication

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository/memory"
	"github.com/jwalitptl/medtrack-api/internal/service/scheduling"
	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
)

var creationTime = time.Date(2025, 3, 10, 15, 45, 0, 0, time.UTC)

type testEnv struct {
	store     *memory.Store
	svc       *Service
	clock     *clock.Mock
	patientID int64
}

func newTestEnv(t *testing.T, cfg Config) testEnv {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewMock()
	clk.Set(creationTime)

	u := &model.User{Username: "pat", FullName: "Pat Doe", Role: model.RolePatient}
	require.NoError(t, store.Users().Create(context.Background(), u, model.PatientProfile{Diagnosis: "type 2 diabetes"}))
	patients, err := store.Patients().List(context.Background())
	require.NoError(t, err)

	svc := NewService(
		store.TxManager(),
		store.Medications(),
		store.DoseSchedules(),
		store.MedicationRecords(),
		store.Patients(),
		scheduling.NewScheduler(clk),
		clk,
		nil,
		cfg,
	)
	return testEnv{store: store, svc: svc, clock: clk, patientID: patients[0].ID}
}

func intPtr(v int) *int { return &v }

func TestCreate_MetforminScenario(t *testing.T) {
	env := newTestEnv(t, Config{})
	ctx := context.Background()

	med, err := env.svc.Create(ctx, &model.CreateMedicationRequest{
		PatientID:       env.patientID,
		Name:            "Metformin",
		Dose:            "850mg",
		FrequencyPerDay: 2,
		DurationDays:    90,
	})
	require.NoError(t, err)
	require.Len(t, med.DoseSchedules, 2)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), med.DoseSchedules[0].ScheduledTime)
	assert.Equal(t, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), med.DoseSchedules[1].ScheduledTime)
	assert.Equal(t, creationTime, med.CreatedAt)

	fetched, err := env.svc.Get(ctx, med.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.DoseSchedules, 2)
	assert.Empty(t, fetched.MedicationRecords)
}

func TestCreate_ZeroFrequencySucceedsWithoutSlots(t *testing.T) {
	env := newTestEnv(t, Config{})

	for _, f := range []int{0, -2} {
		med, err := env.svc.Create(context.Background(), &model.CreateMedicationRequest{
			PatientID:       env.patientID,
			Name:            "PRN ibuprofen",
			Dose:            "200mg",
			FrequencyPerDay: f,
		})
		require.NoError(t, err)
		assert.NotZero(t, med.ID)
		assert.Empty(t, med.DoseSchedules)
	}
}

func TestCreate_UnknownPatient(t *testing.T) {
	env := newTestEnv(t, Config{})

	_, err := env.svc.Create(context.Background(), &model.CreateMedicationRequest{
		PatientID: 999, Name: "x", Dose: "1mg", FrequencyPerDay: 1,
	})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestUpdate_PartialFields(t *testing.T) {
	env := newTestEnv(t, Config{})
	ctx := context.Background()

	notes := "after meals"
	med, err := env.svc.Create(ctx, &model.CreateMedicationRequest{
		PatientID: env.patientID, Name: "Metformin", Dose: "850mg", FrequencyPerDay: 2, DurationDays: 90, Notes: &notes,
	})
	require.NoError(t, err)

	dose := "1000mg"
	updated, err := env.svc.Update(ctx, med.ID, &model.UpdateMedicationRequest{Dose: &dose})
	require.NoError(t, err)
	assert.Equal(t, "Metformin", updated.Name)
	assert.Equal(t, "1000mg", updated.Dose)
	assert.Equal(t, 90, updated.DurationDays)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "after meals", *updated.Notes)
}

func TestUpdate_FrequencyChangeKeepsSlotsByDefault(t *testing.T) {
	env := newTestEnv(t, Config{})
	ctx := context.Background()

	med, err := env.svc.Create(ctx, &model.CreateMedicationRequest{
		PatientID: env.patientID, Name: "Metformin", Dose: "850mg", FrequencyPerDay: 2,
	})
	require.NoError(t, err)

	updated, err := env.svc.Update(ctx, med.ID, &model.UpdateMedicationRequest{FrequencyPerDay: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.FrequencyPerDay)
	assert.Len(t, updated.DoseSchedules, 2)
	assert.Equal(t, med.DoseSchedules[0].ID, updated.DoseSchedules[0].ID)
}

func TestUpdate_FrequencyChangeRegenerates(t *testing.T) {
	env := newTestEnv(t, Config{RegenerateOnFrequencyChange: true})
	ctx := context.Background()

	med, err := env.svc.Create(ctx, &model.CreateMedicationRequest{
		PatientID: env.patientID, Name: "Metformin", Dose: "850mg", FrequencyPerDay: 2,
	})
	require.NoError(t, err)
	require.NoError(t, env.store.MedicationRecords().Create(ctx, &model.MedicationRecord{
		MedicationID: med.ID, DoseScheduleID: med.DoseSchedules[0].ID, IsTaken: true,
	}))

	env.clock.Add(24 * time.Hour)
	updated, err := env.svc.Update(ctx, med.ID, &model.UpdateMedicationRequest{FrequencyPerDay: intPtr(3)})
	require.NoError(t, err)

	require.Len(t, updated.DoseSchedules, 3)
	hours := []int{}
	for _, s := range updated.DoseSchedules {
		assert.Equal(t, 11, s.ScheduledTime.Day())
		hours = append(hours, s.ScheduledTime.Hour())
	}
	assert.Equal(t, []int{0, 8, 16}, hours)
	assert.Empty(t, updated.MedicationRecords)
}

func TestUpdate_SameFrequencyDoesNotRegenerate(t *testing.T) {
	env := newTestEnv(t, Config{RegenerateOnFrequencyChange: true})
	ctx := context.Background()

	med, err := env.svc.Create(ctx, &model.CreateMedicationRequest{
		PatientID: env.patientID, Name: "Metformin", Dose: "850mg", FrequencyPerDay: 2,
	})
	require.NoError(t, err)

	updated, err := env.svc.Update(ctx, med.ID, &model.UpdateMedicationRequest{FrequencyPerDay: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, med.DoseSchedules[0].ID, updated.DoseSchedules[0].ID)
}

func TestUpdate_Missing(t *testing.T) {
	env := newTestEnv(t, Config{})
	name := "x"
	_, err := env.svc.Update(context.Background(), 404, &model.UpdateMedicationRequest{Name: &name})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestDelete_RemovesSlotsAndRecords(t *testing.T) {
	env := newTestEnv(t, Config{})
	ctx := context.Background()

	med, err := env.svc.Create(ctx, &model.CreateMedicationRequest{
		PatientID: env.patientID, Name: "Metformin", Dose: "850mg", FrequencyPerDay: 2,
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, med.ID))

	_, err = env.svc.Get(ctx, med.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	n, err := env.store.DoseSchedules().CountByMedication(ctx, med.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	err = env.svc.Delete(ctx, med.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestListByPatient(t *testing.T) {
	env := newTestEnv(t, Config{})
	ctx := context.Background()

	for _, name := range []string{"Metformin", "Lisinopril"} {
		_, err := env.svc.Create(ctx, &model.CreateMedicationRequest{
			PatientID: env.patientID, Name: name, Dose: "10mg", FrequencyPerDay: 1,
		})
		require.NoError(t, err)
	}

	meds, err := env.svc.ListByPatient(ctx, env.patientID)
	require.NoError(t, err)
	require.Len(t, meds, 2)
	assert.Equal(t, "Metformin", meds[0].Name)
	assert.Len(t, meds[1].DoseSchedules, 1)

	none, err := env.svc.ListByPatient(ctx, 12345)
	require.NoError(t, err)
	assert.Empty(t, none)
}
