package domain

import "time"

// FaultType enumerates the kinds of electrical faults the public can report.
type FaultType string

const (
	FaultTypeFallenPole FaultType = "fallen_pole"
	FaultTypeSparks     FaultType = "sparks"
	FaultTypeOutage     FaultType = "outage"
	FaultTypeOther      FaultType = "other"
)

// ValidFaultType reports whether the value is a known fault type.
func ValidFaultType(t FaultType) bool {
	switch t {
	case FaultTypeFallenPole, FaultTypeSparks, FaultTypeOutage, FaultTypeOther:
		return true
	}
	return false
}

// ReportStatus enumerates lifecycle states for fault reports.
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusInProgress ReportStatus = "in_progress"
	ReportStatusResolved   ReportStatus = "resolved"
	ReportStatusClosed     ReportStatus = "closed"
)

// ValidReportStatus reports whether the value is a known status.
func ValidReportStatus(s ReportStatus) bool {
	switch s {
	case ReportStatusPending, ReportStatusInProgress, ReportStatusResolved, ReportStatusClosed:
		return true
	}
	return false
}

// FaultReport is the aggregate for a customer-submitted electrical fault.
// There is no account linkage: the submitted phone number doubles as the
// customer's lookup key, exactly as provided.
type FaultReport struct {
	ID          string
	FaultType   FaultType
	PhoneNumber string
	Address     string
	Description *string
	Status      ReportStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
