package dashboard

import (
	"context"

	"github.com/spec-kit/fault-report-service/internal/authstate"
	"github.com/spec-kit/fault-report-service/internal/domain"
	"github.com/spec-kit/fault-report-service/internal/service"
	apperrors "github.com/spec-kit/fault-report-service/pkg/util"
)

// ServiceBackend adapts the in-process ReportService to the dashboard's
// Backend contract, attributing writes to the auth store's current user.
type ServiceBackend struct {
	reports *service.ReportService
	session *authstate.Store
}

// NewServiceBackend wraps a ReportService and the session state store.
func NewServiceBackend(reports *service.ReportService, session *authstate.Store) *ServiceBackend {
	return &ServiceBackend{reports: reports, session: session}
}

func (b *ServiceBackend) ListReports(ctx context.Context) ([]domain.FaultReport, error) {
	if _, err := b.currentStaffID(); err != nil {
		return nil, err
	}
	return b.reports.ListAllReports(ctx)
}

func (b *ServiceBackend) ListFeedback(ctx context.Context) (domain.FeedbackByReport, error) {
	if _, err := b.currentStaffID(); err != nil {
		return nil, err
	}
	return b.reports.ListAllFeedbackGrouped(ctx)
}

func (b *ServiceBackend) UpdateStatus(ctx context.Context, reportID string, status domain.ReportStatus) error {
	staffID, err := b.currentStaffID()
	if err != nil {
		return err
	}
	return b.reports.UpdateStatus(ctx, staffID, reportID, status)
}

func (b *ServiceBackend) AddFeedback(ctx context.Context, reportID, text string) error {
	staffID, err := b.currentStaffID()
	if err != nil {
		return err
	}
	_, err = b.reports.AddFeedback(ctx, staffID, reportID, text)
	return err
}

func (b *ServiceBackend) currentStaffID() (string, error) {
	user := b.session.CurrentUser()
	if user == nil {
		return "", apperrors.NewUnauthorized("session required")
	}
	return user.ID, nil
}
