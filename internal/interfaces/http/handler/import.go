package handler

import (
	bulkapp "github.com/emart/backend/internal/application/bulk"
	"github.com/emart/backend/internal/domain/bulk"
	"github.com/emart/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxImportFileSize caps uploaded CSV files at 10 MiB
const maxImportFileSize = 10 << 20

// ImportHandler handles bulk CSV import endpoints
type ImportHandler struct {
	BaseHandler
	importService *bulkapp.ImportService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *bulkapp.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// RejectImportRequest is the request body for rejecting an import job
type RejectImportRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Upload handles POST /api/v1/imports
func (h *ImportHandler) Upload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	entityType := bulk.ImportEntityType(c.PostForm("entity_type"))
	if !entityType.IsValid() {
		h.BadRequest(c, "entity_type must be one of: products, suppliers")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A CSV file is required")
		return
	}
	if fileHeader.Size > maxImportFileSize {
		h.BadRequest(c, "File exceeds the 10 MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	job, err := h.importService.Upload(c.Request.Context(), entityType, fileHeader.Filename, file, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, job)
}

// Get handles GET /api/v1/imports/:id
func (h *ImportHandler) Get(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid import job ID")
		return
	}

	job, err := h.importService.GetByID(c.Request.Context(), uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// List handles GET /api/v1/imports
func (h *ImportHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	jobs, err := h.importService.List(c.Request.Context(), c.Query("status"), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, jobs)
}

// Approve handles POST /api/v1/imports/:id/approve
func (h *ImportHandler) Approve(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid import job ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.importService.Approve(c.Request.Context(), uuid.MustParse(idReq.ID), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Reject handles POST /api/v1/imports/:id/reject
func (h *ImportHandler) Reject(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid import job ID")
		return
	}

	var req RejectImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "A rejection reason is required")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	job, err := h.importService.Reject(c.Request.Context(), uuid.MustParse(idReq.ID), userID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}
