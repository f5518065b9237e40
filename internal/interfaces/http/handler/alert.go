package handler

import (
	alertingapp "github.com/emart/backend/internal/application/alerting"
	"github.com/emart/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AlertHandler handles stock and payment alert endpoints
type AlertHandler struct {
	BaseHandler
	alertService *alertingapp.AlertService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alertService *alertingapp.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// ListUnresolved handles GET /api/v1/alerts
func (h *AlertHandler) ListUnresolved(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	alerts, total, err := h.alertService.ListUnresolved(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, alerts, total, req.Page, req.PageSize)
}

// MarkRead handles POST /api/v1/alerts/:id/read
func (h *AlertHandler) MarkRead(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	if err := h.alertService.MarkRead(c.Request.Context(), uuid.MustParse(idReq.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Resolve handles POST /api/v1/alerts/:id/resolve
func (h *AlertHandler) Resolve(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.alertService.Resolve(c.Request.Context(), uuid.MustParse(idReq.ID), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
