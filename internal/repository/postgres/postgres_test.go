package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medtrack-api/internal/model"
	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
)

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

func q(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

func TestUserRepository_CreateDoctor(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs("Gregory House", "house", "hash", model.RoleDoctor, testNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(q("INSERT INTO doctors")).
		WithArgs(int64(11), "Diagnostics", testNow).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user := &model.User{FullName: "Gregory House", Username: "house", PasswordHash: "hash", Role: model.RoleDoctor}
	user.CreatedAt = testNow
	err := repo.Create(context.Background(), user, model.DoctorProfile{Department: "Diagnostics"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), user.ID)
}

func TestUserRepository_CreateAdminWritesNoProfile(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO users")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCommit()

	user := &model.User{Username: "root", Role: model.RoleAdmin}
	require.NoError(t, repo.Create(context.Background(), user, model.AdminProfile{}))
}

func TestUserRepository_CreateDuplicateUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
	mock.ExpectRollback()

	user := &model.User{Username: "house", Role: model.RolePatient}
	err := repo.Create(context.Background(), user, model.PatientProfile{Diagnosis: "lupus"})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestUserRepository_ProfileFailureRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO users")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(q("INSERT INTO patients")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	user := &model.User{Username: "p1", Role: model.RolePatient}
	err := repo.Create(context.Background(), user, model.PatientProfile{Diagnosis: "flu"})
	assert.Error(t, err)
}

func TestUserRepository_GetByUsernameNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(q("FROM users WHERE username = $1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestMedicationRepository_GetNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMedicationRepository(db)

	mock.ExpectQuery(q("FROM medications WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.Contains(t, err.Error(), "medication not found")
}

func TestMedicationRepository_CreateUnknownPatient(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMedicationRepository(db)

	mock.ExpectQuery(q("INSERT INTO medications")).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "medications_patient_id_fkey"})

	err := repo.Create(context.Background(), &model.Medication{PatientID: 404, Name: "x", Dose: "1mg"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.Contains(t, err.Error(), "referenced patient not found")
}

func TestMedicationRepository_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMedicationRepository(db)

	mock.ExpectExec(q("DELETE FROM medications WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 7)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestMedicationAndSlotsShareTransaction(t *testing.T) {
	db, mock := newMock(t)
	tx := NewTxManager(db)
	meds := NewMedicationRepository(db)
	slots := NewDoseScheduleRepository(db)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO medications")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectQuery(q("INSERT INTO medication_dose_schedules")).
		WithArgs(int64(21), day, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery(q("INSERT INTO medication_dose_schedules")).
		WithArgs(int64(21), day.Add(12*time.Hour), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectCommit()

	med := &model.Medication{PatientID: 1, Name: "Metformin", Dose: "850mg", FrequencyPerDay: 2}
	var created []model.DoseSchedule
	err := tx.WithTx(context.Background(), func(ctx context.Context) error {
		if err := meds.Create(ctx, med); err != nil {
			return err
		}
		var err error
		created, err = slots.CreateBatch(ctx, []model.DoseSchedule{
			{MedicationID: med.ID, ScheduledTime: day},
			{MedicationID: med.ID, ScheduledTime: day.Add(12 * time.Hour)},
		})
		return err
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, int64(100), created[0].ID)
	assert.Equal(t, int64(101), created[1].ID)
}

func TestMedicationAndSlotsRollBackTogether(t *testing.T) {
	db, mock := newMock(t)
	tx := NewTxManager(db)
	meds := NewMedicationRepository(db)
	slots := NewDoseScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO medications")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectQuery(q("INSERT INTO medication_dose_schedules")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := tx.WithTx(context.Background(), func(ctx context.Context) error {
		med := &model.Medication{PatientID: 1, Name: "Metformin", Dose: "850mg"}
		if err := meds.Create(ctx, med); err != nil {
			return err
		}
		_, err := slots.CreateBatch(ctx, []model.DoseSchedule{{MedicationID: med.ID, ScheduledTime: testNow}})
		return err
	})
	assert.Error(t, err)
}

func TestMedicationRecordRepository_ListByPatient(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMedicationRecordRepository(db)

	cols := []string{
		"id", "medication_id", "dose_schedule_id", "record_date", "is_taken", "taken_at", "created_at",
		"medication.id", "medication.patient_id", "medication.name", "medication.dose",
		"medication.frequency_per_day", "medication.duration_days", "medication.start_date",
		"medication.end_date", "medication.notes", "medication.created_at",
		"dose_schedule.id", "dose_schedule.medication_id", "dose_schedule.scheduled_time", "dose_schedule.notes",
	}
	slotTime := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(q("WHERE m.patient_id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			int64(1), int64(21), int64(101), testNow, true, testNow, testNow,
			int64(21), int64(4), "Metformin", "850mg",
			int64(2), int64(90), testNow,
			testNow, nil, testNow,
			int64(101), int64(21), slotTime, nil,
		))

	details, err := repo.ListByPatient(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, details, 1)

	d := details[0]
	assert.Equal(t, int64(1), d.ID)
	assert.True(t, d.IsTaken)
	require.NotNil(t, d.TakenAt)
	require.NotNil(t, d.Medication)
	assert.Equal(t, "Metformin", d.Medication.Name)
	assert.Equal(t, int64(4), d.Medication.PatientID)
	require.NotNil(t, d.DoseSchedule)
	assert.Equal(t, slotTime, d.DoseSchedule.ScheduledTime)
}

func TestDoseScheduleRepository_ListByMedicationsEmpty(t *testing.T) {
	db, _ := newMock(t)
	repo := NewDoseScheduleRepository(db)

	schedules, err := repo.ListByMedications(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, schedules)
}

func TestDoseScheduleRepository_CountByMedication(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDoseScheduleRepository(db)

	mock.ExpectQuery(q("SELECT COUNT(*) FROM medication_dose_schedules")).
		WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := repo.CountByMedication(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSideEffectRepository_ListByPatient(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSideEffectRepository(db)

	medID := int64(21)
	cols := []string{"id", "patient_id", "medication_id", "description", "severity", "date", "created_at", "medication_name"}
	mock.ExpectQuery(q("ORDER BY s.date DESC")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(2), int64(4), medID, "nausea", "mild", testNow, testNow, "Metformin").
			AddRow(int64(1), int64(4), nil, "headache", nil, testNow.Add(-time.Hour), testNow, nil))

	effects, err := repo.ListByPatient(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, effects, 2)
	require.NotNil(t, effects[0].MedicationName)
	assert.Equal(t, "Metformin", *effects[0].MedicationName)
	assert.Nil(t, effects[1].MedicationID)
	assert.Nil(t, effects[1].MedicationName)
}

func TestMessageRepository_MarkRead(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMessageRepository(db)

	cols := []string{"id", "sender_id", "receiver_id", "content", "is_read", "read_at", "created_at"}
	mock.ExpectQuery(q("SET is_read = TRUE, read_at = COALESCE(read_at, $2)")).
		WithArgs(int64(8), testNow).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(8), int64(1), int64(2), "hi", true, testNow, testNow))

	msg, err := repo.MarkRead(context.Background(), 8, testNow)
	require.NoError(t, err)
	assert.True(t, msg.IsRead)
	require.NotNil(t, msg.ReadAt)
}

func TestMessageRepository_MarkReadMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMessageRepository(db)

	mock.ExpectQuery(q("UPDATE messages")).WillReturnError(sql.ErrNoRows)

	_, err := repo.MarkRead(context.Background(), 8, testNow)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestDoctorRepository_PatientIDs(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDoctorRepository(db)

	mock.ExpectQuery(q("WHERE doctor_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"doctor_id", "patient_id"}).
			AddRow(int64(1), int64(10)).
			AddRow(int64(1), int64(11)).
			AddRow(int64(2), int64(10)))

	ids, err := repo.PatientIDs(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, ids[1])
	assert.Equal(t, []int64{10}, ids[2])
	assert.Empty(t, ids[3])
}

func TestDoctorRepository_AssignUnknownPatient(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDoctorRepository(db)

	mock.ExpectExec(q("INSERT INTO doctor_patients")).
		WithArgs(int64(1), int64(404)).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "doctor_patients_patient_id_fkey"})

	err := repo.AssignPatient(context.Background(), 1, 404)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}
