package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
)

const medicationRecordColumns = `id, medication_id, dose_schedule_id, record_date, is_taken, taken_at, created_at`

const medicationRecordDetailSelect = `
	SELECT r.id, r.medication_id, r.dose_schedule_id, r.record_date, r.is_taken, r.taken_at, r.created_at,
		m.id AS "medication.id",
		m.patient_id AS "medication.patient_id",
		m.name AS "medication.name",
		m.dose AS "medication.dose",
		m.frequency_per_day AS "medication.frequency_per_day",
		m.duration_days AS "medication.duration_days",
		m.start_date AS "medication.start_date",
		m.end_date AS "medication.end_date",
		m.notes AS "medication.notes",
		m.created_at AS "medication.created_at",
		ds.id AS "dose_schedule.id",
		ds.medication_id AS "dose_schedule.medication_id",
		ds.scheduled_time AS "dose_schedule.scheduled_time",
		ds.notes AS "dose_schedule.notes"
	FROM medication_records r
	JOIN medications m ON m.id = r.medication_id
	JOIN medication_dose_schedules ds ON ds.id = r.dose_schedule_id`

// recordDetailRow maps the prefixed join columns.
type recordDetailRow struct {
	model.MedicationRecord
	Medication   model.MedicationSummary `db:"medication"`
	DoseSchedule model.DoseSchedule      `db:"dose_schedule"`
}

func (row *recordDetailRow) toDetail() *model.MedicationRecordDetail {
	med := row.Medication
	slot := row.DoseSchedule
	return &model.MedicationRecordDetail{
		MedicationRecord: row.MedicationRecord,
		Medication:       &med,
		DoseSchedule:     &slot,
	}
}

type medicationRecordRepository struct {
	BaseRepository
}

func NewMedicationRecordRepository(db *sqlx.DB) repository.MedicationRecordRepository {
	return &medicationRecordRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *medicationRecordRepository) Create(ctx context.Context, rec *model.MedicationRecord) error {
	query := `
		INSERT INTO medication_records (medication_id, dose_schedule_id, record_date, is_taken, taken_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.conn(ctx).QueryRowxContext(ctx, query,
		rec.MedicationID,
		rec.DoseScheduleID,
		rec.RecordDate,
		rec.IsTaken,
		rec.TakenAt,
		rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return mapError(err, "medication record")
	}
	return nil
}

func (r *medicationRecordRepository) Get(ctx context.Context, id int64) (*model.MedicationRecordDetail, error) {
	var row recordDetailRow
	if err := sqlx.GetContext(ctx, r.conn(ctx), &row, medicationRecordDetailSelect+` WHERE r.id = $1`, id); err != nil {
		return nil, mapError(err, "medication record")
	}
	return row.toDetail(), nil
}

func (r *medicationRecordRepository) ListByMedications(ctx context.Context, medicationIDs []int64) ([]model.MedicationRecord, error) {
	records := []model.MedicationRecord{}
	if len(medicationIDs) == 0 {
		return records, nil
	}
	query := `SELECT ` + medicationRecordColumns + ` FROM medication_records
		WHERE medication_id = ANY($1)
		ORDER BY medication_id, record_date, id`
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &records, query, pq.Array(medicationIDs)); err != nil {
		return nil, fmt.Errorf("failed to list medication records: %w", err)
	}
	return records, nil
}

func (r *medicationRecordRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.MedicationRecordDetail, error) {
	var rows []recordDetailRow
	query := medicationRecordDetailSelect + ` WHERE m.patient_id = $1 ORDER BY r.record_date, r.id`
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &rows, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient medication records: %w", err)
	}

	details := make([]*model.MedicationRecordDetail, 0, len(rows))
	for i := range rows {
		details = append(details, rows[i].toDetail())
	}
	return details, nil
}

func (r *medicationRecordRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM medication_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medication record: %w", err)
	}
	return expectAffected(res, "medication record")
}
