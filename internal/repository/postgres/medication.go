package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
)

const medicationColumns = `id, patient_id, name, dose, frequency_per_day, duration_days, start_date, end_date, notes, created_at`

type medicationRepository struct {
	BaseRepository
}

func NewMedicationRepository(db *sqlx.DB) repository.MedicationRepository {
	return &medicationRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *medicationRepository) Create(ctx context.Context, m *model.Medication) error {
	query := `
		INSERT INTO medications (patient_id, name, dose, frequency_per_day, duration_days,
			start_date, end_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.conn(ctx).QueryRowxContext(ctx, query,
		m.PatientID,
		m.Name,
		m.Dose,
		m.FrequencyPerDay,
		m.DurationDays,
		m.StartDate,
		m.EndDate,
		m.Notes,
		m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return mapError(err, "medication")
	}
	return nil
}

func (r *medicationRepository) Get(ctx context.Context, id int64) (*model.Medication, error) {
	var m model.Medication
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.conn(ctx), &m, query, id); err != nil {
		return nil, mapError(err, "medication")
	}
	return &m, nil
}

func (r *medicationRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Medication, error) {
	meds := []*model.Medication{}
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE patient_id = $1 ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &meds, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return meds, nil
}

// Update overwrites every editable column; callers merge partial input first.
func (r *medicationRepository) Update(ctx context.Context, m *model.Medication) error {
	query := `
		UPDATE medications
		SET name = $1, dose = $2, frequency_per_day = $3, duration_days = $4,
			start_date = $5, end_date = $6, notes = $7
		WHERE id = $8`
	res, err := r.conn(ctx).ExecContext(ctx, query,
		m.Name,
		m.Dose,
		m.FrequencyPerDay,
		m.DurationDays,
		m.StartDate,
		m.EndDate,
		m.Notes,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}
	return expectAffected(res, "medication")
}

// Delete cascades to dose slots and records; side effects keep a NULL link.
func (r *medicationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	return expectAffected(res, "medication")
}
