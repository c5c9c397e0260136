package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/fault-report-service/internal/domain"
	"github.com/spec-kit/fault-report-service/internal/events"
	"github.com/spec-kit/fault-report-service/internal/repository"
	apperrors "github.com/spec-kit/fault-report-service/pkg/util"
)

// ReportService coordinates fault report submission, visibility and
// feedback authoring.
type ReportService struct {
	reports    repository.FaultReportRepository
	feedback   repository.StaffFeedbackRepository
	dispatcher events.Dispatcher
}

// ReportDependencies bundles repositories for the report service.
type ReportDependencies struct {
	ReportRepo   repository.FaultReportRepository
	FeedbackRepo repository.StaffFeedbackRepository
	Dispatcher   events.Dispatcher
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		reports:    deps.ReportRepo,
		feedback:   deps.FeedbackRepo,
		dispatcher: deps.Dispatcher,
	}
}

// SubmitReportInput describes a public fault report submission.
type SubmitReportInput struct {
	FaultType   domain.FaultType
	PhoneNumber string
	Address     string
	Description string
}

// SubmitReport validates and inserts a new fault report. Validation happens
// before any write: a missing required field never reaches the store.
func (s *ReportService) SubmitReport(ctx context.Context, input SubmitReportInput) (*domain.FaultReport, error) {
	missing := map[string]any{}
	if input.FaultType == "" {
		missing["fault_type"] = "required"
	} else if !domain.ValidFaultType(input.FaultType) {
		missing["fault_type"] = "unknown fault type"
	}
	if strings.TrimSpace(input.PhoneNumber) == "" {
		missing["phone_number"] = "required"
	}
	if strings.TrimSpace(input.Address) == "" {
		missing["address"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("please fill in all required fields", missing)
	}

	report := &domain.FaultReport{
		FaultType:   input.FaultType,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		report.Description = &desc
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.NewWriteError("failed to submit fault report", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportSubmitted,
		ReportID: report.ID,
		Payload: events.ReportSubmittedPayload{
			FaultType:   report.FaultType,
			PhoneNumber: report.PhoneNumber,
			Address:     report.Address,
		},
	})
	return report, nil
}

// ListAllReports returns every fault report, newest first. Staff only; the
// transport layer enforces the session gate.
func (s *ReportService) ListAllReports(ctx context.Context) ([]domain.FaultReport, error) {
	reports, err := s.reports.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewQueryError("failed to fetch fault reports", err)
	}
	return reports, nil
}

// ListAllFeedbackGrouped returns every feedback entry joined with its
// author's display name, grouped by report id, newest first within a group.
func (s *ReportService) ListAllFeedbackGrouped(ctx context.Context) (domain.FeedbackByReport, error) {
	entries, err := s.feedback.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewQueryError("failed to fetch feedback", err)
	}
	return domain.GroupFeedbackByReport(entries), nil
}

// SearchByPhone is the public read path: no session required, the supplied
// phone number is the only proof of identity. The value is matched exactly
// (after trimming surrounding whitespace, as submitted forms do). A blank
// query is rejected locally without touching the store, and the feedback
// fetch is skipped entirely when no reports match.
func (s *ReportService) SearchByPhone(ctx context.Context, phoneNumber string) ([]domain.FaultReport, domain.FeedbackByReport, error) {
	phone := strings.TrimSpace(phoneNumber)
	if phone == "" {
		return nil, nil, apperrors.NewValidationError("enter the phone number used when submitting the report", nil)
	}

	reports, err := s.reports.ListByPhoneNumber(ctx, phone)
	if err != nil {
		return nil, nil, apperrors.NewQueryError("failed to fetch your reports", err)
	}
	if len(reports) == 0 {
		return reports, domain.FeedbackByReport{}, nil
	}

	ids := make([]string, len(reports))
	for i, report := range reports {
		ids[i] = report.ID
	}
	entries, err := s.feedback.ListByReportIDs(ctx, ids)
	if err != nil {
		return nil, nil, apperrors.NewQueryError("failed to fetch feedback", err)
	}
	return reports, domain.GroupFeedbackByReport(entries), nil
}

// UpdateStatus sets a report's status. Any valid session may update any
// report; there is no per-staff ownership partitioning.
func (s *ReportService) UpdateStatus(ctx context.Context, staffID, reportID string, status domain.ReportStatus) error {
	if !domain.ValidReportStatus(status) {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": status})
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return apperrors.NewQueryError("failed to fetch fault report", err)
	}
	if report.Status == status {
		return nil
	}

	if err := s.reports.UpdateStatus(ctx, reportID, status); err != nil {
		return apperrors.NewWriteError("failed to update status", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportStatusChanged,
		ReportID: reportID,
		Actor:    events.Actor{StaffID: &staffID},
		Payload: events.ReportStatusChangedPayload{
			OldStatus: report.Status,
			NewStatus: status,
		},
	})
	return nil
}

// AddFeedback attaches a staff note to a report, attributed to the authoring
// session's identity. Blank text or a missing selection fails locally.
func (s *ReportService) AddFeedback(ctx context.Context, staffID, reportID, text string) (*domain.StaffFeedback, error) {
	if reportID == "" {
		return nil, apperrors.NewValidationError("no report selected", nil)
	}
	body := strings.TrimSpace(text)
	if body == "" {
		return nil, apperrors.NewValidationError("feedback text is required", nil)
	}

	feedback := &domain.StaffFeedback{
		FaultReportID: reportID,
		StaffID:       staffID,
		Feedback:      body,
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, apperrors.NewWriteError("failed to add feedback", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventFeedbackAdded,
		ReportID: reportID,
		Actor:    events.Actor{StaffID: &staffID},
		Payload: events.FeedbackAddedPayload{
			FeedbackID:  feedback.ID,
			BodyPreview: preview(body),
		},
	})
	return feedback, nil
}

func (s *ReportService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func preview(body string) string {
	const max = 120
	if len(body) <= max {
		return body
	}
	return body[:max]
}
