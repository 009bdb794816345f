package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/medtrack-api/internal/repository"
	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
)

type txKey struct{}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// NewTxManager exposes WithTx to the service layer
func NewTxManager(db *sqlx.DB) repository.TxManager {
	return &BaseRepository{db: db}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// conn returns the transaction carried by ctx, or the pool.
func (r *BaseRepository) conn(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return r.db
}

// WithTx executes fn within a transaction. Nested calls join the outer one.
func (r *BaseRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// mapError translates driver errors into application errors for resource.
func mapError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(resource, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return apperrors.Conflict(fmt.Sprintf("%s already exists", resource), err)
		case "23503":
			return apperrors.NotFound("referenced "+referencedResource(pqErr), err)
		}
	}
	return err
}

func referencedResource(pqErr *pq.Error) string {
	switch pqErr.Constraint {
	case "medications_patient_id_fkey", "side_effects_patient_id_fkey", "doctor_patients_patient_id_fkey":
		return "patient"
	case "doctor_patients_doctor_id_fkey":
		return "doctor"
	case "medication_records_medication_id_fkey", "side_effects_medication_id_fkey":
		return "medication"
	case "medication_records_dose_schedule_id_fkey":
		return "dose schedule"
	default:
		return "record"
	}
}

// expectAffected turns a zero-row write into NotFound.
func expectAffected(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.NotFound(resource, nil)
	}
	return nil
}
