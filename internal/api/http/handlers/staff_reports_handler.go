package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fault-report-service/internal/api/dto"
	"github.com/spec-kit/fault-report-service/internal/auth"
	"github.com/spec-kit/fault-report-service/internal/domain"
	"github.com/spec-kit/fault-report-service/internal/service"
)

// StaffReportsHandler exposes the session-gated staff surface: full report
// listing, status updates and feedback authoring.
type StaffReportsHandler struct {
	reports *service.ReportService
}

// NewStaffReportsHandler constructs handler.
func NewStaffReportsHandler(reportService *service.ReportService) *StaffReportsHandler {
	return &StaffReportsHandler{reports: reportService}
}

// List handles GET /staff/reports: every report, newest first.
func (h *StaffReportsHandler) List(c *fiber.Ctx) error {
	reports, err := h.reports.ListAllReports(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponses(reports)})
}

// ListFeedback handles GET /staff/feedback: every feedback entry joined
// with the author's display name, grouped by report id.
func (h *StaffReportsHandler) ListFeedback(c *fiber.Ctx) error {
	grouped, err := h.reports.ListAllFeedbackGrouped(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFeedbackResponses(grouped)})
}

// UpdateStatus handles PATCH /staff/reports/:id/status.
func (h *StaffReportsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "session required")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.reports.UpdateStatus(c.Context(), principal.Staff.ID, c.Params("id"), domain.ReportStatus(req.Status)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// AddFeedback handles POST /staff/reports/:id/feedback, attributed to the
// authenticated author.
func (h *StaffReportsHandler) AddFeedback(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "session required")
	}

	var req dto.AddFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	feedback, err := h.reports.AddFeedback(c.Context(), principal.Staff.ID, c.Params("id"), req.Feedback)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.FeedbackResponse{
			ID:            feedback.ID,
			FaultReportID: feedback.FaultReportID,
			Feedback:      feedback.Feedback,
			CreatedAt:     feedback.CreatedAt,
		},
	})
}
