package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
)

const doseScheduleColumns = `id, medication_id, scheduled_time, notes`

type doseScheduleRepository struct {
	BaseRepository
}

func NewDoseScheduleRepository(db *sqlx.DB) repository.DoseScheduleRepository {
	return &doseScheduleRepository{BaseRepository: NewBaseRepository(db)}
}

// CreateBatch inserts all slots atomically and returns them with ids set.
func (r *doseScheduleRepository) CreateBatch(ctx context.Context, schedules []model.DoseSchedule) ([]model.DoseSchedule, error) {
	created := make([]model.DoseSchedule, 0, len(schedules))
	err := r.WithTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO medication_dose_schedules (medication_id, scheduled_time, notes)
			VALUES ($1, $2, $3)
			RETURNING id`
		for _, s := range schedules {
			if err := r.conn(ctx).QueryRowxContext(ctx, query, s.MedicationID, s.ScheduledTime, s.Notes).Scan(&s.ID); err != nil {
				return mapError(err, "dose schedule")
			}
			created = append(created, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *doseScheduleRepository) Get(ctx context.Context, id int64) (*model.DoseSchedule, error) {
	var s model.DoseSchedule
	query := `SELECT ` + doseScheduleColumns + ` FROM medication_dose_schedules WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.conn(ctx), &s, query, id); err != nil {
		return nil, mapError(err, "dose schedule")
	}
	return &s, nil
}

func (r *doseScheduleRepository) ListByMedications(ctx context.Context, medicationIDs []int64) ([]model.DoseSchedule, error) {
	schedules := []model.DoseSchedule{}
	if len(medicationIDs) == 0 {
		return schedules, nil
	}
	query := `SELECT ` + doseScheduleColumns + ` FROM medication_dose_schedules
		WHERE medication_id = ANY($1)
		ORDER BY medication_id, scheduled_time, id`
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &schedules, query, pq.Array(medicationIDs)); err != nil {
		return nil, fmt.Errorf("failed to list dose schedules: %w", err)
	}
	return schedules, nil
}

func (r *doseScheduleRepository) CountByMedication(ctx context.Context, medicationID int64) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM medication_dose_schedules WHERE medication_id = $1`
	if err := sqlx.GetContext(ctx, r.conn(ctx), &n, query, medicationID); err != nil {
		return 0, fmt.Errorf("failed to count dose schedules: %w", err)
	}
	return n, nil
}

// DeleteByMedication also removes the records tied to those slots (cascade).
func (r *doseScheduleRepository) DeleteByMedication(ctx context.Context, medicationID int64) error {
	if _, err := r.conn(ctx).ExecContext(ctx,
		`DELETE FROM medication_dose_schedules WHERE medication_id = $1`, medicationID); err != nil {
		return fmt.Errorf("failed to delete dose schedules: %w", err)
	}
	return nil
}
