package sites

import (
	"net/http"
	"strings"

	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/httpkit"
	"chanitec_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "Invalid request body"
	msgCreateFields     = "Name and client_id are required"
	msgNameRequired     = "Name is required"
	msgClientIDRequired = "Client ID is required"
)

// CreateSiteRequest is the body of POST /api/sites.
type CreateSiteRequest struct {
	Name     string  `json:"name" validate:"required"`
	ClientID string  `json:"client_id" validate:"required"`
	Address  *string `json:"address"`
}

// UpdateSiteRequest is the body of PUT /api/sites/:id.
type UpdateSiteRequest struct {
	Name    string  `json:"name" validate:"required"`
	Address *string `json:"address"`
}

// Handler handles site requests.
type Handler struct {
	store Store
	val   *validator.Validator
}

// NewHandler creates a site handler.
func NewHandler(store Store, val *validator.Validator) *Handler {
	return &Handler{store: store, val: val}
}

// RegisterRoutes mounts the site routes. /by-client is registered before /:id.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/by-client", h.ListByClient)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, list)
}

// ListByClient handles GET /api/sites/by-client?clientId=
func (h *Handler) ListByClient(c *gin.Context) {
	clientID := strings.TrimSpace(c.Query("clientId"))
	if clientID == "" {
		httpkit.HandleError(c, apperr.Validation(msgClientIDRequired))
		return
	}

	ctx := c.Request.Context()
	exists, err := h.store.ClientExists(ctx, clientID)
	if httpkit.HandleError(c, err) {
		return
	}
	if !exists {
		httpkit.HandleError(c, apperr.NotFound("Client not found with ID: "+clientID))
		return
	}

	list, err := h.store.ListByClient(ctx, clientID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, list)
}

func (h *Handler) Get(c *gin.Context) {
	site, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, site)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgCreateFields))
		return
	}

	created, err := h.store.Create(c.Request.Context(), Site{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Address:  req.Address,
		ClientID: req.ClientID,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, created)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgNameRequired))
		return
	}

	updated, err := h.store.Update(c.Request.Context(), Site{ID: c.Param("id"), Name: req.Name, Address: req.Address})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, updated)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}
