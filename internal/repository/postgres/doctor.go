package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
)

const doctorSelect = `
	SELECT d.id, d.user_id, d.department, d.created_at, u.full_name, u.username
	FROM doctors d
	JOIN users u ON u.id = d.user_id`

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors := []*model.Doctor{}
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &doctors, doctorSelect+` ORDER BY d.id`); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := sqlx.GetContext(ctx, r.conn(ctx), &doctor, doctorSelect+` WHERE d.id = $1`, id); err != nil {
		return nil, mapError(err, "doctor")
	}
	return &doctor, nil
}

func (r *doctorRepository) UpdateDepartment(ctx context.Context, id int64, department string) error {
	res, err := r.conn(ctx).ExecContext(ctx, `UPDATE doctors SET department = $1 WHERE id = $2`, department, id)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	return expectAffected(res, "doctor")
}

func (r *doctorRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return expectAffected(res, "doctor")
}

// AssignPatient is idempotent.
func (r *doctorRepository) AssignPatient(ctx context.Context, doctorID, patientID int64) error {
	query := `
		INSERT INTO doctor_patients (doctor_id, patient_id)
		VALUES ($1, $2)
		ON CONFLICT (doctor_id, patient_id) DO NOTHING`
	if _, err := r.conn(ctx).ExecContext(ctx, query, doctorID, patientID); err != nil {
		return mapError(err, "assignment")
	}
	return nil
}

func (r *doctorRepository) UnassignPatient(ctx context.Context, doctorID, patientID int64) error {
	res, err := r.conn(ctx).ExecContext(ctx,
		`DELETE FROM doctor_patients WHERE doctor_id = $1 AND patient_id = $2`, doctorID, patientID)
	if err != nil {
		return fmt.Errorf("failed to unassign patient: %w", err)
	}
	return expectAffected(res, "assignment")
}

func (r *doctorRepository) ListPatients(ctx context.Context, doctorID int64) ([]*model.Patient, error) {
	query := patientSelect + `
		JOIN doctor_patients dp ON dp.patient_id = p.id
		WHERE dp.doctor_id = $1
		ORDER BY p.id`
	patients := []*model.Patient{}
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &patients, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor patients: %w", err)
	}
	return patients, nil
}

// PatientIDs returns the assigned patient ids keyed by doctor id.
func (r *doctorRepository) PatientIDs(ctx context.Context, doctorIDs []int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64, len(doctorIDs))
	if len(doctorIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		DoctorID  int64 `db:"doctor_id"`
		PatientID int64 `db:"patient_id"`
	}
	query := `
		SELECT doctor_id, patient_id
		FROM doctor_patients
		WHERE doctor_id = ANY($1)
		ORDER BY doctor_id, patient_id`
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &rows, query, pq.Array(doctorIDs)); err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	for _, row := range rows {
		result[row.DoctorID] = append(result[row.DoctorID], row.PatientID)
	}
	return result, nil
}
