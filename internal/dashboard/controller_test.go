package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/fault-report-service/internal/domain"
	apperrors "github.com/spec-kit/fault-report-service/pkg/util"
)

type fakeDashboardBackend struct {
	reports  []domain.FaultReport
	feedback domain.FeedbackByReport

	reportsErr  error
	feedbackErr error
	updateErr   error
	addErr      error

	listReportsCalls  int
	listFeedbackCalls int
	updateCalls       int
	addCalls          int

	addedReportID string
	addedText     string
}

func (f *fakeDashboardBackend) ListReports(context.Context) ([]domain.FaultReport, error) {
	f.listReportsCalls++
	if f.reportsErr != nil {
		return nil, f.reportsErr
	}
	return f.reports, nil
}

func (f *fakeDashboardBackend) ListFeedback(context.Context) (domain.FeedbackByReport, error) {
	f.listFeedbackCalls++
	if f.feedbackErr != nil {
		return nil, f.feedbackErr
	}
	return f.feedback, nil
}

func (f *fakeDashboardBackend) UpdateStatus(_ context.Context, reportID string, status domain.ReportStatus) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.reports {
		if f.reports[i].ID == reportID {
			f.reports[i].Status = status
		}
	}
	return nil
}

func (f *fakeDashboardBackend) AddFeedback(_ context.Context, reportID, text string) error {
	f.addCalls++
	if f.addErr != nil {
		return f.addErr
	}
	f.addedReportID = reportID
	f.addedText = text
	if f.feedback == nil {
		f.feedback = domain.FeedbackByReport{}
	}
	f.feedback[reportID] = append(f.feedback[reportID], domain.StaffFeedback{
		ID:            "fb-new",
		FaultReportID: reportID,
		Feedback:      text,
		CreatedAt:     time.Now(),
	})
	return nil
}

func sampleReports() []domain.FaultReport {
	return []domain.FaultReport{
		{ID: "r-2", PhoneNumber: "08030000002", FaultType: domain.FaultTypeSparks, Status: domain.ReportStatusPending},
		{ID: "r-1", PhoneNumber: "08030000001", FaultType: domain.FaultTypeOutage, Status: domain.ReportStatusInProgress},
	}
}

func newTestController(backend *fakeDashboardBackend) *Controller {
	return NewController(backend, zap.NewNop())
}

func TestRefreshLoadsReportsAndFeedback(t *testing.T) {
	backend := &fakeDashboardBackend{
		reports: sampleReports(),
		feedback: domain.FeedbackByReport{
			"r-1": {{ID: "fb-1", FaultReportID: "r-1", Feedback: "Technician dispatched"}},
		},
	}
	ctrl := newTestController(backend)

	require.NoError(t, ctrl.Refresh(context.Background()))

	assert.Len(t, ctrl.Reports(), 2)
	assert.Len(t, ctrl.FeedbackFor("r-1"), 1)
	assert.Nil(t, ctrl.FeedbackFor("r-2"))
}

func TestRefreshFeedbackFailureKeepsReports(t *testing.T) {
	backend := &fakeDashboardBackend{
		reports: sampleReports(),
		feedback: domain.FeedbackByReport{
			"r-1": {{ID: "fb-1", FaultReportID: "r-1", Feedback: "Technician dispatched"}},
		},
	}
	ctrl := newTestController(backend)
	require.NoError(t, ctrl.Refresh(context.Background()))

	backend.feedbackErr = errors.New("feedback query failed")
	err := ctrl.Refresh(context.Background())

	// The fetches are independent: reports land, the stale grouping stays.
	require.NoError(t, err)
	assert.Len(t, ctrl.Reports(), 2)
	assert.Len(t, ctrl.FeedbackFor("r-1"), 1)
}

func TestRefreshReportsFailureSurfaced(t *testing.T) {
	backend := &fakeDashboardBackend{reportsErr: errors.New("reports query failed")}
	ctrl := newTestController(backend)

	err := ctrl.Refresh(context.Background())

	require.Error(t, err)
	assert.Empty(t, ctrl.Reports())
}

func TestSelectionWorkflow(t *testing.T) {
	ctrl := newTestController(&fakeDashboardBackend{})

	assert.Empty(t, ctrl.Selected())

	ctrl.SelectReport("r-1")
	ctrl.SetDraft("Crew on the way")
	assert.Equal(t, "r-1", ctrl.Selected())
	assert.Equal(t, "Crew on the way", ctrl.Draft())

	// Selecting another report switches the target without touching the draft.
	ctrl.SelectReport("r-2")
	assert.Equal(t, "r-2", ctrl.Selected())
	assert.Equal(t, "Crew on the way", ctrl.Draft())

	ctrl.Cancel()
	assert.Empty(t, ctrl.Selected())
	assert.Empty(t, ctrl.Draft())
}

func TestSubmitFeedbackWithoutSelection(t *testing.T) {
	backend := &fakeDashboardBackend{}
	ctrl := newTestController(backend)
	ctrl.SetDraft("Crew on the way")

	err := ctrl.SubmitFeedback(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, backend.addCalls, "validation failure must not reach the backend")
}

func TestSubmitFeedbackBlankDraft(t *testing.T) {
	backend := &fakeDashboardBackend{}
	ctrl := newTestController(backend)
	ctrl.SelectReport("r-1")
	ctrl.SetDraft("   ")

	err := ctrl.SubmitFeedback(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, backend.addCalls)
	// Selection and draft survive so the author can fix and retry.
	assert.Equal(t, "r-1", ctrl.Selected())
}

func TestSubmitFeedbackSuccess(t *testing.T) {
	backend := &fakeDashboardBackend{feedback: domain.FeedbackByReport{}}
	ctrl := newTestController(backend)
	ctrl.SelectReport("r-1")
	ctrl.SetDraft("Technician dispatched")

	require.NoError(t, ctrl.SubmitFeedback(context.Background()))

	assert.Equal(t, "r-1", backend.addedReportID)
	assert.Equal(t, "Technician dispatched", backend.addedText)
	assert.Empty(t, ctrl.Selected())
	assert.Empty(t, ctrl.Draft())
	// The grouped view is refetched so the new entry shows immediately.
	require.Len(t, ctrl.FeedbackFor("r-1"), 1)
	assert.Equal(t, "Technician dispatched", ctrl.FeedbackFor("r-1")[0].Feedback)
}

func TestSubmitFeedbackBackendFailureKeepsDraft(t *testing.T) {
	backend := &fakeDashboardBackend{addErr: errors.New("insert failed")}
	ctrl := newTestController(backend)
	ctrl.SelectReport("r-1")
	ctrl.SetDraft("Technician dispatched")

	err := ctrl.SubmitFeedback(context.Background())

	require.Error(t, err)
	assert.Equal(t, "r-1", ctrl.Selected())
	assert.Equal(t, "Technician dispatched", ctrl.Draft())
	assert.Zero(t, backend.listFeedbackCalls, "no refetch after a failed submit")
}

func TestUpdateStatusRefetchesReports(t *testing.T) {
	backend := &fakeDashboardBackend{reports: sampleReports()}
	ctrl := newTestController(backend)
	require.NoError(t, ctrl.Refresh(context.Background()))

	require.NoError(t, ctrl.UpdateStatus(context.Background(), "r-2", domain.ReportStatusResolved))

	reports := ctrl.Reports()
	var updated *domain.FaultReport
	for i := range reports {
		if reports[i].ID == "r-2" {
			updated = &reports[i]
		}
	}
	require.NotNil(t, updated)
	assert.Equal(t, domain.ReportStatusResolved, updated.Status)
}

func TestUpdateStatusBackendFailure(t *testing.T) {
	backend := &fakeDashboardBackend{reports: sampleReports(), updateErr: errors.New("update failed")}
	ctrl := newTestController(backend)
	require.NoError(t, ctrl.Refresh(context.Background()))
	fetchesBefore := backend.listReportsCalls

	err := ctrl.UpdateStatus(context.Background(), "r-2", domain.ReportStatusResolved)

	require.Error(t, err)
	assert.Equal(t, fetchesBefore, backend.listReportsCalls, "no refetch after a failed update")
}
