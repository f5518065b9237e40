package handler

import (
	"time"

	reportapp "github.com/emart/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles dashboard and reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard handles GET /api/v1/reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// StockDistribution handles GET /api/v1/reports/stock-distribution
func (h *ReportHandler) StockDistribution(c *gin.Context) {
	rows, err := h.reportService.StockDistribution(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}

// MovementSummary handles GET /api/v1/reports/movement-summary
func (h *ReportHandler) MovementSummary(c *gin.Context) {
	days := 30
	if d := c.Query("days"); d != "" {
		parsed, err := parsePositiveInt(d)
		if err != nil {
			h.BadRequest(c, "days must be a positive integer")
			return
		}
		days = parsed
	}

	since := time.Now().AddDate(0, 0, -days)
	rows, err := h.reportService.MovementSummary(c.Request.Context(), since)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}
