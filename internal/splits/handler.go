package splits

import (
	"net/http"
	"strings"

	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/httpkit"
	"chanitec_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest = "Invalid request body"
	msgCreateFields   = "Code, name, and site_id are required"
)

// CreateSplitRequest is the body of POST /api/splits.
type CreateSplitRequest struct {
	Code        string   `json:"code" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description"`
	Puissance   *float64 `json:"puissance" validate:"omitempty,gte=0"`
	SiteID      string   `json:"site_id" validate:"required"`
}

// UpdateSplitRequest is the body of PUT /api/splits/:code. Every field is optional.
type UpdateSplitRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Puissance   *float64 `json:"puissance" validate:"omitempty,gte=0"`
	SiteID      string   `json:"site_id"`
}

// Handler handles split requests.
type Handler struct {
	store Store
	val   *validator.Validator
}

// NewHandler creates a split handler.
func NewHandler(store Store, val *validator.Validator) *Handler {
	return &Handler{store: store, val: val}
}

// RegisterRoutes mounts the split routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/by-site/:siteId", h.ListBySite)
	rg.GET("/:code", h.Get)
	rg.GET("/:code/site", h.GetSite)
	rg.PUT("/:code", h.Update)
	rg.DELETE("/:code", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, list)
}

func (h *Handler) ListBySite(c *gin.Context) {
	list, err := h.store.ListBySite(c.Request.Context(), c.Param("siteId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, list)
}

func (h *Handler) Get(c *gin.Context) {
	split, err := h.store.GetByCode(c.Request.Context(), c.Param("code"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, split)
}

// GetSite handles GET /api/splits/:code/site
func (h *Handler) GetSite(c *gin.Context) {
	site, err := h.store.SiteOf(c.Request.Context(), c.Param("code"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, site)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgCreateFields).WithDetails(validator.FailedFields(err)))
		return
	}

	created, err := h.store.Create(c.Request.Context(), Split{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Puissance:   req.Puissance,
		SiteID:      req.SiteID,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, created)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation("Puissance must not be negative"))
		return
	}

	updated, err := h.store.Update(c.Request.Context(), Split{
		Code:        c.Param("code"),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Puissance:   req.Puissance,
		SiteID:      strings.TrimSpace(req.SiteID),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, updated)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("code")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}
