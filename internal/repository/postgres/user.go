package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
)

const userColumns = `id, full_name, username, password_hash, role, created_at`

type userRepository struct {
	BaseRepository
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

// Create inserts the user and its role row in one transaction.
func (r *userRepository) Create(ctx context.Context, user *model.User, profile model.RoleProfile) error {
	return r.WithTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO users (full_name, username, password_hash, role, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`
		err := r.conn(ctx).QueryRowxContext(ctx, query,
			user.FullName,
			user.Username,
			user.PasswordHash,
			user.Role,
			user.CreatedAt,
		).Scan(&user.ID)
		if err != nil {
			return mapError(err, "username")
		}

		switch p := profile.(type) {
		case model.DoctorProfile:
			_, err = r.conn(ctx).ExecContext(ctx,
				`INSERT INTO doctors (user_id, department, created_at) VALUES ($1, $2, $3)`,
				user.ID, p.Department, user.CreatedAt)
		case model.PatientProfile:
			_, err = r.conn(ctx).ExecContext(ctx,
				`INSERT INTO patients (user_id, diagnosis, created_at) VALUES ($1, $2, $3)`,
				user.ID, p.Diagnosis, user.CreatedAt)
		case model.AdminProfile:
		default:
			return fmt.Errorf("unsupported role profile %T", profile)
		}
		if err != nil {
			return fmt.Errorf("failed to create %s profile: %w", profile.Role(), err)
		}
		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.conn(ctx), &user, query, id); err != nil {
		return nil, mapError(err, "user")
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	if err := sqlx.GetContext(ctx, r.conn(ctx), &user, query, username); err != nil {
		return nil, mapError(err, "user")
	}
	return &user, nil
}
