package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupFeedbackByReport(t *testing.T) {
	entries := []StaffFeedback{
		{ID: "f3", FaultReportID: "r2", Feedback: "crew on site"},
		{ID: "f2", FaultReportID: "r1", Feedback: "scheduled"},
		{ID: "f1", FaultReportID: "r2", Feedback: "received"},
	}

	grouped := GroupFeedbackByReport(entries)

	assert.Len(t, grouped, 2)
	// Fetch order is preserved within each group.
	assert.Equal(t, []string{"f3", "f1"}, []string{grouped["r2"][0].ID, grouped["r2"][1].ID})
	assert.Equal(t, "f2", grouped["r1"][0].ID)
}

func TestGroupFeedbackByReportAbsentKey(t *testing.T) {
	grouped := GroupFeedbackByReport(nil)

	// A report with zero feedback has no key at all.
	entries, ok := grouped["r1"]
	assert.False(t, ok)
	assert.Empty(t, entries)
}

func TestValidFaultType(t *testing.T) {
	assert.True(t, ValidFaultType(FaultTypeSparks))
	assert.True(t, ValidFaultType(FaultTypeFallenPole))
	assert.False(t, ValidFaultType("earthquake"))
	assert.False(t, ValidFaultType(""))
}

func TestValidReportStatus(t *testing.T) {
	assert.True(t, ValidReportStatus(ReportStatusPending))
	assert.True(t, ValidReportStatus(ReportStatusClosed))
	assert.False(t, ValidReportStatus("reopened"))
}
