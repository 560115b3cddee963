package handler

import (
	"context"
	"net/http"

	"chanitec_backend/internal/quotes/transport"
	"chanitec_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// SupplyItemService is the supply line surface. *service.Service implements it.
type SupplyItemService interface {
	ListSupplyItems(ctx context.Context, quoteID string) ([]transport.SupplyItem, error)
	GetSupplyItem(ctx context.Context, id string) (transport.SupplyItem, error)
	CreateSupplyItem(ctx context.Context, quoteID string, in transport.SupplyItemInput) (transport.SupplyItem, error)
	UpdateSupplyItem(ctx context.Context, id string, in transport.SupplyItemInput) (transport.SupplyItem, error)
	DeleteSupplyItem(ctx context.Context, id string) error
}

// SupplyHandler handles HTTP requests for supply items.
type SupplyHandler struct {
	svc SupplyItemService
}

// NewSupplyHandler creates a new supply item handler.
func NewSupplyHandler(svc SupplyItemService) *SupplyHandler {
	return &SupplyHandler{svc: svc}
}

// RegisterRoutes registers the supply item routes. Lists and creates are keyed
// by the quote id, single-item reads by the item id under /item.
func (h *SupplyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/item/:id", h.Get)
	rg.GET("/:quoteId", h.List)
	rg.POST("/:quoteId", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List handles GET /api/supply-items/:quoteId
func (h *SupplyHandler) List(c *gin.Context) {
	items, err := h.svc.ListSupplyItems(c.Request.Context(), c.Param("quoteId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, items)
}

// Get handles GET /api/supply-items/item/:id
func (h *SupplyHandler) Get(c *gin.Context) {
	item, err := h.svc.GetSupplyItem(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, item)
}

// Create handles POST /api/supply-items/:quoteId
func (h *SupplyHandler) Create(c *gin.Context) {
	var req transport.SupplyItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	item, err := h.svc.CreateSupplyItem(c.Request.Context(), c.Param("quoteId"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, item)
}

// Update handles PUT /api/supply-items/:id
func (h *SupplyHandler) Update(c *gin.Context) {
	var req transport.SupplyItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	item, err := h.svc.UpdateSupplyItem(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, item)
}

// Delete handles DELETE /api/supply-items/:id
func (h *SupplyHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteSupplyItem(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}
