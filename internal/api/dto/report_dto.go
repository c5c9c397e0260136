package dto

import (
	"time"

	"github.com/spec-kit/fault-report-service/internal/domain"
)

// SubmitReportRequest is the public fault report payload.
type SubmitReportRequest struct {
	FaultType   string `json:"fault_type"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// ReportResponse mirrors a fault report row.
type ReportResponse struct {
	ID          string    `json:"id"`
	FaultType   string    `json:"fault_type"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FeedbackResponse mirrors a staff feedback row with its author name.
type FeedbackResponse struct {
	ID            string    `json:"id"`
	FaultReportID string    `json:"fault_report_id"`
	Feedback      string    `json:"feedback"`
	AuthorName    string    `json:"author_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpdateStatusRequest is the staff status mutation payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AddFeedbackRequest is the staff feedback payload.
type AddFeedbackRequest struct {
	Feedback string `json:"feedback"`
}

// NewReportResponse maps a domain report.
func NewReportResponse(report domain.FaultReport) ReportResponse {
	return ReportResponse{
		ID:          report.ID,
		FaultType:   string(report.FaultType),
		PhoneNumber: report.PhoneNumber,
		Address:     report.Address,
		Description: report.Description,
		Status:      string(report.Status),
		CreatedAt:   report.CreatedAt,
		UpdatedAt:   report.UpdatedAt,
	}
}

// NewReportResponses maps a report slice, preserving order.
func NewReportResponses(reports []domain.FaultReport) []ReportResponse {
	result := make([]ReportResponse, 0, len(reports))
	for _, report := range reports {
		result = append(result, NewReportResponse(report))
	}
	return result
}

// NewFeedbackResponses maps grouped feedback, preserving in-group order.
func NewFeedbackResponses(grouped domain.FeedbackByReport) map[string][]FeedbackResponse {
	result := make(map[string][]FeedbackResponse, len(grouped))
	for reportID, entries := range grouped {
		mapped := make([]FeedbackResponse, 0, len(entries))
		for _, entry := range entries {
			mapped = append(mapped, FeedbackResponse{
				ID:            entry.ID,
				FaultReportID: entry.FaultReportID,
				Feedback:      entry.Feedback,
				AuthorName:    entry.AuthorName,
				CreatedAt:     entry.CreatedAt,
			})
		}
		result[reportID] = mapped
	}
	return result
}
