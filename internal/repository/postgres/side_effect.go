package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
)

const sideEffectSelect = `
	SELECT s.id, s.patient_id, s.medication_id, s.description, s.severity, s.date, s.created_at,
		m.name AS medication_name
	FROM side_effects s
	LEFT JOIN medications m ON m.id = s.medication_id`

type sideEffectRepository struct {
	BaseRepository
}

func NewSideEffectRepository(db *sqlx.DB) repository.SideEffectRepository {
	return &sideEffectRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *sideEffectRepository) Create(ctx context.Context, s *model.SideEffect) error {
	query := `
		INSERT INTO side_effects (patient_id, medication_id, description, severity, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.conn(ctx).QueryRowxContext(ctx, query,
		s.PatientID,
		s.MedicationID,
		s.Description,
		s.Severity,
		s.Date,
		s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return mapError(err, "side effect")
	}
	return nil
}

func (r *sideEffectRepository) Get(ctx context.Context, id int64) (*model.SideEffect, error) {
	var s model.SideEffect
	if err := sqlx.GetContext(ctx, r.conn(ctx), &s, sideEffectSelect+` WHERE s.id = $1`, id); err != nil {
		return nil, mapError(err, "side effect")
	}
	return &s, nil
}

// ListByPatient returns newest reports first.
func (r *sideEffectRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.SideEffect, error) {
	effects := []*model.SideEffect{}
	query := sideEffectSelect + ` WHERE s.patient_id = $1 ORDER BY s.date DESC, s.id DESC`
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &effects, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list side effects: %w", err)
	}
	return effects, nil
}

func (r *sideEffectRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM side_effects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete side effect: %w", err)
	}
	return expectAffected(res, "side effect")
}
