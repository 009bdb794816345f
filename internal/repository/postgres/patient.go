package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
)

const patientSelect = `
	SELECT p.id, p.user_id, p.diagnosis, p.discharge_date, p.created_at, u.full_name
	FROM patients p
	JOIN users u ON u.id = p.user_id`

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	patients := []*model.Patient{}
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &patients, patientSelect+` ORDER BY p.id`); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	var patient model.Patient
	if err := sqlx.GetContext(ctx, r.conn(ctx), &patient, patientSelect+` WHERE p.id = $1`, id); err != nil {
		return nil, mapError(err, "patient")
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	res, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE patients SET diagnosis = $1, discharge_date = $2 WHERE id = $3`,
		patient.Diagnosis, patient.DischargeDate, patient.ID)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return expectAffected(res, "patient")
}

// Delete removes the patient row; medications, side effects and
// assignments go with it through ON DELETE CASCADE.
func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return expectAffected(res, "patient")
}
