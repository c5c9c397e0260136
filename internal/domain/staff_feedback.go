package domain

import "time"

// StaffFeedback is a progress note attached to a fault report by staff.
// Rows are append-only: never updated or deleted once written.
type StaffFeedback struct {
	ID            string
	FaultReportID string
	StaffID       string
	Feedback      string
	CreatedAt     time.Time

	// AuthorName is the display name of the authoring staff profile,
	// populated by listing queries that join staff_profiles.
	AuthorName string
}

// FeedbackByReport groups feedback entries by fault report id. Reports with
// no feedback have no key at all; order within a group follows fetch order.
type FeedbackByReport map[string][]StaffFeedback

// GroupFeedbackByReport builds the grouping in a single pass, preserving the
// order of the input sequence within each group.
func GroupFeedbackByReport(entries []StaffFeedback) FeedbackByReport {
	grouped := make(FeedbackByReport, len(entries))
	for _, entry := range entries {
		grouped[entry.FaultReportID] = append(grouped[entry.FaultReportID], entry)
	}
	return grouped
}
