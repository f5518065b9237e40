package handler

import (
	inventoryapp "github.com/emart/backend/internal/application/inventory"
	"github.com/emart/backend/internal/domain/inventory"
	"github.com/emart/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler handles inventory and stock movement endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.Service) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// TransferStockRequest is the request body for a stock transfer
type TransferStockRequest struct {
	ProductID    string `json:"product_id" binding:"required,uuid"`
	FromLocation string `json:"from_location" binding:"required"`
	ToLocation   string `json:"to_location" binding:"required"`
	Quantity     int64  `json:"quantity" binding:"required,gt=0"`
	Reference    string `json:"reference"`
	Reason       string `json:"reason"`
}

// AdjustStockRequest is the request body for a single-location stock change
type AdjustStockRequest struct {
	ProductID    string `json:"product_id" binding:"required,uuid"`
	Location     string `json:"location" binding:"required"`
	MovementType string `json:"movement_type" binding:"required,oneof=in out adjustment"`
	Quantity     int64  `json:"quantity" binding:"required,gt=0"`
	Increase     bool   `json:"increase"`
	Damaged      bool   `json:"damaged"`
	Reference    string `json:"reference"`
	Reason       string `json:"reason"`
}

// UpdateInventoryRequest is the request body for a partial record update
type UpdateInventoryRequest struct {
	QuantityInStock *int64 `json:"quantity_in_stock" binding:"omitempty,gte=0"`
	ReorderPoint    *int64 `json:"reorder_point" binding:"omitempty,gte=0"`
	Reason          string `json:"reason"`
}

// Transfer handles POST /api/v1/inventory/transfer
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	result, err := h.inventoryService.Transfer(c.Request.Context(), inventoryapp.TransferRequest{
		ProductID:    productID,
		FromLocation: req.FromLocation,
		ToLocation:   req.ToLocation,
		Quantity:     req.Quantity,
		Reference:    req.Reference,
		Reason:       req.Reason,
		UserID:       userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Adjust handles POST /api/v1/inventory/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	result, err := h.inventoryService.Adjust(c.Request.Context(), inventoryapp.AdjustRequest{
		ProductID:    productID,
		Location:     req.Location,
		MovementType: inventory.MovementType(req.MovementType),
		Quantity:     req.Quantity,
		Increase:     req.Increase,
		Damaged:      req.Damaged,
		Reference:    req.Reference,
		Reason:       req.Reason,
		UserID:       userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Update handles PUT /api/v1/inventory/:id
func (h *InventoryHandler) Update(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid inventory record ID")
		return
	}

	var req UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	record, err := h.inventoryService.UpdateRecord(c.Request.Context(), uuid.MustParse(idReq.ID), inventoryapp.UpdateRecordRequest{
		QuantityInStock: req.QuantityInStock,
		ReorderPoint:    req.ReorderPoint,
		Reason:          req.Reason,
		UserID:          userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Get handles GET /api/v1/inventory/:id
func (h *InventoryHandler) Get(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid inventory record ID")
		return
	}

	record, err := h.inventoryService.GetRecord(c.Request.Context(), uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// List handles GET /api/v1/inventory
func (h *InventoryHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	query := inventoryapp.ListRecordsQuery{
		Location: c.Query("location"),
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if productIDStr := c.Query("product_id"); productIDStr != "" {
		productID, err := uuid.Parse(productIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid product ID")
			return
		}
		query.ProductID = &productID
	}

	records, total, err := h.inventoryService.ListRecords(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, req.Page, req.PageSize)
}

// ListMovements handles GET /api/v1/stock-movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	query := inventoryapp.ListMovementsQuery{
		Limit: req.PageSize,
	}
	if productIDStr := c.Query("product_id"); productIDStr != "" {
		productID, err := uuid.Parse(productIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid product ID")
			return
		}
		query.ProductID = &productID
	}

	movements, err := h.inventoryService.ListMovements(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}
