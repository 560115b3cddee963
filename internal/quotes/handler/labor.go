package handler

import (
	"context"
	"net/http"

	"chanitec_backend/internal/quotes/transport"
	"chanitec_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// LaborItemService is the labor line surface. *service.Service implements it.
type LaborItemService interface {
	ListLaborItems(ctx context.Context, quoteID string) ([]transport.LaborItem, error)
	GetLaborItem(ctx context.Context, id string) (transport.LaborItem, error)
	CreateLaborItem(ctx context.Context, quoteID string, in transport.LaborItemInput) (transport.LaborItem, error)
	UpdateLaborItem(ctx context.Context, id string, in transport.LaborItemInput) (transport.LaborItem, error)
	DeleteLaborItem(ctx context.Context, id string) error
}

// LaborHandler handles HTTP requests for labor items.
type LaborHandler struct {
	svc LaborItemService
}

// NewLaborHandler creates a new labor item handler.
func NewLaborHandler(svc LaborItemService) *LaborHandler {
	return &LaborHandler{svc: svc}
}

// RegisterRoutes registers the labor item routes.
func (h *LaborHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/item/:id", h.Get)
	rg.GET("/:quoteId", h.List)
	rg.POST("/:quoteId", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List handles GET /api/labor-items/:quoteId
func (h *LaborHandler) List(c *gin.Context) {
	items, err := h.svc.ListLaborItems(c.Request.Context(), c.Param("quoteId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, items)
}

// Get handles GET /api/labor-items/item/:id
func (h *LaborHandler) Get(c *gin.Context) {
	item, err := h.svc.GetLaborItem(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, item)
}

// Create handles POST /api/labor-items/:quoteId
func (h *LaborHandler) Create(c *gin.Context) {
	var req transport.LaborItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	item, err := h.svc.CreateLaborItem(c.Request.Context(), c.Param("quoteId"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, item)
}

// Update handles PUT /api/labor-items/:id
func (h *LaborHandler) Update(c *gin.Context) {
	var req transport.LaborItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	item, err := h.svc.UpdateLaborItem(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, item)
}

// Delete handles DELETE /api/labor-items/:id
func (h *LaborHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteLaborItem(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}
