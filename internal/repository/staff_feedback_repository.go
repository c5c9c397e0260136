package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fault-report-service/internal/domain"
)

// StaffFeedbackRepository encapsulates feedback persistence. Feedback rows
// are append-only: no update or delete operations exist.
type StaffFeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.StaffFeedback) error
	ListAll(ctx context.Context) ([]domain.StaffFeedback, error)
	ListByReportIDs(ctx context.Context, reportIDs []string) ([]domain.StaffFeedback, error)
}

type staffFeedbackRepository struct {
	pool *pgxpool.Pool
}

// NewStaffFeedbackRepository instantiates the repository.
func NewStaffFeedbackRepository(pool *pgxpool.Pool) StaffFeedbackRepository {
	return &staffFeedbackRepository{pool: pool}
}

func (r *staffFeedbackRepository) Create(ctx context.Context, feedback *domain.StaffFeedback) error {
	const query = `
        INSERT INTO staff_feedback (fault_report_id, staff_id, feedback)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		feedback.FaultReportID,
		feedback.StaffID,
		feedback.Feedback,
	).Scan(&feedback.ID, &feedback.CreatedAt)
}

// ListAll returns every feedback row joined with the author's display name,
// newest first.
func (r *staffFeedbackRepository) ListAll(ctx context.Context) ([]domain.StaffFeedback, error) {
	const query = `
        SELECT f.id, f.fault_report_id, f.staff_id, f.feedback, f.created_at,
               COALESCE(p.full_name, '')
        FROM staff_feedback f
        LEFT JOIN staff_profiles p ON p.id = f.staff_id
        ORDER BY f.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStaffFeedback(rows)
}

// ListByReportIDs returns feedback for the given report id set, newest first.
// An empty id set returns no rows and performs no query.
func (r *staffFeedbackRepository) ListByReportIDs(ctx context.Context, reportIDs []string) ([]domain.StaffFeedback, error) {
	if len(reportIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(reportIDs))
	args := make([]any, len(reportIDs))
	for i, id := range reportIDs {
		args[i] = id
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`
        SELECT f.id, f.fault_report_id, f.staff_id, f.feedback, f.created_at,
               COALESCE(p.full_name, '')
        FROM staff_feedback f
        LEFT JOIN staff_profiles p ON p.id = f.staff_id
        WHERE f.fault_report_id IN (%s)
        ORDER BY f.created_at DESC`, strings.Join(placeholders, ","))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStaffFeedback(rows)
}

func scanStaffFeedback(rows pgx.Rows) ([]domain.StaffFeedback, error) {
	var result []domain.StaffFeedback
	for rows.Next() {
		var feedback domain.StaffFeedback
		if err := rows.Scan(
			&feedback.ID,
			&feedback.FaultReportID,
			&feedback.StaffID,
			&feedback.Feedback,
			&feedback.CreatedAt,
			&feedback.AuthorName,
		); err != nil {
			return nil, err
		}
		result = append(result, feedback)
	}
	return result, rows.Err()
}
