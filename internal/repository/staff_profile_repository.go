package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fault-report-service/internal/domain"
)

// StaffProfileRepository handles persistence for staff identities.
type StaffProfileRepository interface {
	Create(ctx context.Context, profile *domain.StaffProfile) error
	Update(ctx context.Context, profile *domain.StaffProfile) error
	GetByID(ctx context.Context, id string) (*domain.StaffProfile, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffProfile, error)
}

type staffProfileRepository struct {
	pool *pgxpool.Pool
}

// NewStaffProfileRepository instantiates the repository.
func NewStaffProfileRepository(pool *pgxpool.Pool) StaffProfileRepository {
	return &staffProfileRepository{pool: pool}
}

func (r *staffProfileRepository) Create(ctx context.Context, profile *domain.StaffProfile) error {
	const query = `
        INSERT INTO staff_profiles (full_name, email, password_hash, email_confirmed)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		profile.FullName,
		profile.Email,
		profile.PasswordHash,
		profile.EmailConfirmed,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *staffProfileRepository) Update(ctx context.Context, profile *domain.StaffProfile) error {
	const query = `
        UPDATE staff_profiles
        SET full_name=$1, email=$2, password_hash=$3, email_confirmed=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		profile.FullName,
		profile.Email,
		profile.PasswordHash,
		profile.EmailConfirmed,
		profile.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffProfileRepository) GetByID(ctx context.Context, id string) (*domain.StaffProfile, error) {
	const query = `
        SELECT id, full_name, email, password_hash, email_confirmed, created_at, updated_at
        FROM staff_profiles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *staffProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffProfile, error) {
	const query = `
        SELECT id, full_name, email, password_hash, email_confirmed, created_at, updated_at
        FROM staff_profiles WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *staffProfileRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.StaffProfile, error) {
	var profile domain.StaffProfile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Email,
		&profile.PasswordHash,
		&profile.EmailConfirmed,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}
