package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fault-report-service/internal/domain"
)

// FaultReportRepository encapsulates fault report persistence.
type FaultReportRepository interface {
	Create(ctx context.Context, report *domain.FaultReport) error
	GetByID(ctx context.Context, id string) (*domain.FaultReport, error)
	ListAll(ctx context.Context) ([]domain.FaultReport, error)
	ListByPhoneNumber(ctx context.Context, phoneNumber string) ([]domain.FaultReport, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) error
}

type faultReportRepository struct {
	pool *pgxpool.Pool
}

// NewFaultReportRepository instantiates the repository.
func NewFaultReportRepository(pool *pgxpool.Pool) FaultReportRepository {
	return &faultReportRepository{pool: pool}
}

func (r *faultReportRepository) Create(ctx context.Context, report *domain.FaultReport) error {
	const query = `
        INSERT INTO fault_reports (fault_type, phone_number, address, description)
        VALUES ($1,$2,$3,$4)
        RETURNING id, status, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		report.FaultType,
		report.PhoneNumber,
		report.Address,
		report.Description,
	).Scan(&report.ID, &report.Status, &report.CreatedAt, &report.UpdatedAt)
}

func (r *faultReportRepository) GetByID(ctx context.Context, id string) (*domain.FaultReport, error) {
	const query = `
        SELECT id, fault_type, phone_number, address, description, status, created_at, updated_at
        FROM fault_reports WHERE id=$1`

	var report domain.FaultReport
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.FaultType,
		&report.PhoneNumber,
		&report.Address,
		&report.Description,
		&report.Status,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *faultReportRepository) ListAll(ctx context.Context) ([]domain.FaultReport, error) {
	const query = `
        SELECT id, fault_type, phone_number, address, description, status, created_at, updated_at
        FROM fault_reports ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFaultReports(rows)
}

// ListByPhoneNumber matches the stored phone number exactly as supplied.
// No normalization: the submission value is the lookup key.
func (r *faultReportRepository) ListByPhoneNumber(ctx context.Context, phoneNumber string) ([]domain.FaultReport, error) {
	const query = `
        SELECT id, fault_type, phone_number, address, description, status, created_at, updated_at
        FROM fault_reports WHERE phone_number=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, phoneNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFaultReports(rows)
}

func (r *faultReportRepository) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) error {
	const query = `UPDATE fault_reports SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanFaultReports(rows pgx.Rows) ([]domain.FaultReport, error) {
	var result []domain.FaultReport
	for rows.Next() {
		var report domain.FaultReport
		if err := rows.Scan(
			&report.ID,
			&report.FaultType,
			&report.PhoneNumber,
			&report.Address,
			&report.Description,
			&report.Status,
			&report.CreatedAt,
			&report.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}
