package clients

import (
	"context"
	"net/http"
	"strings"

	"chanitec_backend/internal/sites"
	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/httpkit"
	"chanitec_backend/platform/phone"
	"chanitec_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "Invalid request body"
	msgNameRequired   = "Name is required"
	msgInvalidEmail   = "Invalid email"
)

// ClientRequest is the body of create and update.
type ClientRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// SiteLister lists the sites that belong to a client.
type SiteLister interface {
	ListByClient(ctx context.Context, clientID string) ([]sites.Site, error)
}

// Handler handles client requests.
type Handler struct {
	store  Store
	sites  SiteLister
	phones *phone.Normalizer
	val    *validator.Validator
}

// NewHandler creates a client handler.
func NewHandler(store Store, siteLister SiteLister, phones *phone.Normalizer, val *validator.Validator) *Handler {
	return &Handler{store: store, sites: siteLister, phones: phones, val: val}
}

// RegisterRoutes mounts the client routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/sites", h.ListSites)
}

func (h *Handler) List(c *gin.Context) {
	clients, err := h.store.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, clients)
}

func (h *Handler) Get(c *gin.Context) {
	client, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, client)
}

func (h *Handler) Create(c *gin.Context) {
	client, ok := h.bind(c)
	if !ok {
		return
	}
	client.ID = uuid.NewString()

	created, err := h.store.Create(c.Request.Context(), client)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, created)
}

func (h *Handler) Update(c *gin.Context) {
	client, ok := h.bind(c)
	if !ok {
		return
	}
	client.ID = c.Param("id")

	updated, err := h.store.Update(c.Request.Context(), client)
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

// ListSites handles GET /api/clients/:id/sites. An unknown client is a 404
// rather than an empty list.
func (h *Handler) ListSites(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.store.GetByID(ctx, c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	list, err := h.sites.ListByClient(ctx, c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, list)
}

// bind decodes and validates the body and normalizes the optional fields.
func (h *Handler) bind(c *gin.Context) (Client, bool) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return Client{}, false
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.val.Struct(req); err != nil {
		msg := msgNameRequired
		if failure, ok := validator.FirstFailure(err); ok && failure.Field == "email" {
			msg = msgInvalidEmail
		}
		httpkit.HandleError(c, apperr.Validation(msg))
		return Client{}, false
	}

	client := Client{
		Name:    req.Name,
		Email:   trimmed(req.Email),
		Address: trimmed(req.Address),
	}
	if p := trimmed(req.Phone); p != nil {
		normalized := h.phones.NormalizeE164(*p)
		client.Phone = &normalized
	}
	return client, true
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
