package events

import (
	"time"

	"github.com/spec-kit/fault-report-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportSubmitted     EventType = "report_submitted"
	EventReportStatusChanged EventType = "report_status_changed"
	EventFeedbackAdded       EventType = "feedback_added"
)

// Actor encapsulates actor metadata for an event. Public submissions carry
// no staff id; staff actions carry the authoring identity.
type Actor struct {
	StaffID *string `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ReportID  string      `json:"report_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportSubmittedPayload payload.
type ReportSubmittedPayload struct {
	FaultType   domain.FaultType `json:"fault_type"`
	PhoneNumber string           `json:"phone_number"`
	Address     string           `json:"address"`
}

// ReportStatusChangedPayload payload.
type ReportStatusChangedPayload struct {
	OldStatus domain.ReportStatus `json:"old_status"`
	NewStatus domain.ReportStatus `json:"new_status"`
}

// FeedbackAddedPayload payload.
type FeedbackAddedPayload struct {
	FeedbackID  string `json:"feedback_id"`
	BodyPreview string `json:"body_preview"`
}
