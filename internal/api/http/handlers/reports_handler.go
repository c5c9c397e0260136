package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fault-report-service/internal/api/dto"
	"github.com/spec-kit/fault-report-service/internal/domain"
	"github.com/spec-kit/fault-report-service/internal/service"
)

// ReportsHandler exposes the public fault report surface: anonymous
// submission and phone-number lookup.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reportService}
}

// Submit handles POST /reports. No session required.
func (h *ReportsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	report, err := h.reports.SubmitReport(c.Context(), service.SubmitReportInput{
		FaultType:   domain.FaultType(req.FaultType),
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewReportResponse(*report),
	})
}

// Lookup handles GET /reports?phone_number=... No session required: the
// phone number supplied at submission time is the only lookup key.
func (h *ReportsHandler) Lookup(c *fiber.Ctx) error {
	reports, grouped, err := h.reports.SearchByPhone(c.Context(), c.Query("phone_number"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"reports":  dto.NewReportResponses(reports),
			"feedback": dto.NewFeedbackResponses(grouped),
		},
	})
}
