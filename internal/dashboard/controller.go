// Package dashboard holds the staff dashboard's view state: the report
// list, the grouped feedback view, and the feedback selection workflow.
// Rendering is left to whatever front end consumes the controller.
package dashboard

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/fault-report-service/internal/domain"
	apperrors "github.com/spec-kit/fault-report-service/pkg/util"
)

// Backend is the data surface the dashboard consumes. The caller's session
// is implied; staff attribution happens behind this interface.
type Backend interface {
	ListReports(ctx context.Context) ([]domain.FaultReport, error)
	ListFeedback(ctx context.Context) (domain.FeedbackByReport, error)
	UpdateStatus(ctx context.Context, reportID string, status domain.ReportStatus) error
	AddFeedback(ctx context.Context, reportID, text string) error
}

// Controller owns the dashboard state. One writer per instance; accessors
// are safe for concurrent reads.
type Controller struct {
	mu       sync.Mutex
	backend  Backend
	logger   *zap.Logger
	reports  []domain.FaultReport
	feedback domain.FeedbackByReport

	// selected is the report awaiting feedback; empty means none.
	selected string
	draft    string
}

// NewController builds a controller over the backend.
func NewController(backend Backend, logger *zap.Logger) *Controller {
	return &Controller{
		backend:  backend,
		logger:   logger,
		feedback: domain.FeedbackByReport{},
	}
}

// Refresh runs the two dashboard fetches. They are independent: a feedback
// failure does not discard freshly fetched reports, it is logged and the
// previous grouping kept. The report fetch error is the one surfaced.
func (c *Controller) Refresh(ctx context.Context) error {
	reports, reportsErr := c.backend.ListReports(ctx)
	grouped, feedbackErr := c.backend.ListFeedback(ctx)

	c.mu.Lock()
	if reportsErr == nil {
		c.reports = reports
	}
	if feedbackErr == nil {
		c.feedback = grouped
	} else {
		c.logger.Warn("failed to fetch feedback", zap.Error(feedbackErr))
	}
	c.mu.Unlock()

	if reportsErr != nil {
		return apperrors.MapError(reportsErr)
	}
	return nil
}

// Reports returns the current report list, newest first.
func (c *Controller) Reports() []domain.FaultReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reports
}

// FeedbackFor returns the feedback entries for a report in fetch order.
// A report without feedback yields a nil slice, not an error.
func (c *Controller) FeedbackFor(reportID string) []domain.StaffFeedback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feedback[reportID]
}

// SelectReport starts the feedback workflow for the given report.
func (c *Controller) SelectReport(reportID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = reportID
}

// Selected returns the report id awaiting feedback, or "" when none.
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// SetDraft stores the in-progress feedback text.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Draft returns the in-progress feedback text.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Cancel abandons the feedback workflow, clearing selection and draft.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = ""
	c.draft = ""
}

// SubmitFeedback sends the draft for the selected report. On success the
// draft and selection are cleared and the grouped view refetched so the new
// entry shows without a full reload. On failure both are kept so the author
// can retry without retyping.
func (c *Controller) SubmitFeedback(ctx context.Context) error {
	c.mu.Lock()
	selected, draft := c.selected, c.draft
	c.mu.Unlock()

	// Local validation: no backend call for a missing selection or a
	// blank draft.
	if selected == "" {
		return apperrors.NewValidationError("no report selected", nil)
	}
	if strings.TrimSpace(draft) == "" {
		return apperrors.NewValidationError("feedback text is required", nil)
	}

	if err := c.backend.AddFeedback(ctx, selected, draft); err != nil {
		return apperrors.MapError(err)
	}

	c.mu.Lock()
	c.selected = ""
	c.draft = ""
	c.mu.Unlock()

	grouped, err := c.backend.ListFeedback(ctx)
	if err != nil {
		c.logger.Warn("failed to refetch feedback", zap.Error(err))
		return nil
	}
	c.mu.Lock()
	c.feedback = grouped
	c.mu.Unlock()
	return nil
}

// UpdateStatus changes a report's status and refetches the report list so
// the new status is visible.
func (c *Controller) UpdateStatus(ctx context.Context, reportID string, status domain.ReportStatus) error {
	if err := c.backend.UpdateStatus(ctx, reportID, status); err != nil {
		return apperrors.MapError(err)
	}

	reports, err := c.backend.ListReports(ctx)
	if err != nil {
		c.logger.Warn("failed to refetch reports", zap.Error(err))
		return nil
	}
	c.mu.Lock()
	c.reports = reports
	c.mu.Unlock()
	return nil
}
