package handler

import (
	"context"
	"errors"
	"net/http"

	"chanitec_backend/internal/adapters/storage"
	"chanitec_backend/internal/quotes/service"
	"chanitec_backend/internal/quotes/transport"
	"chanitec_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest = "Invalid request body"
	msgDuplicateQuote = "A quote with the same details already exists"
)

// QuoteService is the quote header and aggregate surface the handler calls.
// *service.Service implements it.
type QuoteService interface {
	Create(ctx context.Context, in transport.QuoteInput) (transport.QuoteAggregate, error)
	GetByID(ctx context.Context, id string) (transport.QuoteAggregate, error)
	List(ctx context.Context) ([]transport.Quote, error)
	Update(ctx context.Context, id string, in transport.QuoteInput) (transport.Quote, error)
	SetReminderDate(ctx context.Context, id string, req transport.ReminderRequest) (transport.Quote, error)
	Confirm(ctx context.Context, id string, req transport.ConfirmRequest) (transport.ConfirmResponse, error)
	Delete(ctx context.Context, id string) error
}

// Handler handles HTTP requests for quotes
type Handler struct {
	svc         QuoteService
	companyName string
	archive     storage.StorageService
	pdfBucket   string
}

// New creates a new quotes handler
func New(svc QuoteService) *Handler {
	return &Handler{svc: svc, companyName: "Chanitec"}
}

// SetCompanyName sets the name printed on generated PDFs.
func (h *Handler) SetCompanyName(name string) {
	if name != "" {
		h.companyName = name
	}
}

// SetPDFArchive lets DownloadPDF serve the copy archived at confirmation.
func (h *Handler) SetPDFArchive(svc storage.StorageService, bucket string) {
	h.archive = svc
	h.pdfBucket = bucket
}

// RegisterRoutes registers the quote routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PATCH("/:id/reminder", h.SetReminderDate)
	rg.PATCH("/:id/confirm", h.Confirm)
	rg.GET("/:id/pdf", h.DownloadPDF)
}

// List handles GET /api/quotes
func (h *Handler) List(c *gin.Context) {
	quotes, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, quotes)
}

// Create handles POST /api/quotes
func (h *Handler) Create(c *gin.Context) {
	var req transport.QuoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	var dup *service.DuplicateError
	if errors.As(err, &dup) {
		httpkit.JSON(c, http.StatusBadRequest, transport.DuplicateQuoteResponse{
			Error:           msgDuplicateQuote,
			ExistingQuoteID: dup.ExistingID,
		})
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// GetByID handles GET /api/quotes/:id
func (h *Handler) GetByID(c *gin.Context) {
	result, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Update handles PUT /api/quotes/:id. Only the header changes.
func (h *Handler) Update(c *gin.Context) {
	var req transport.QuoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete handles DELETE /api/quotes/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

// SetReminderDate handles PATCH /api/quotes/:id/reminder
func (h *Handler) SetReminderDate(c *gin.Context) {
	var req transport.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.SetReminderDate(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Confirm handles PATCH /api/quotes/:id/confirm
func (h *Handler) Confirm(c *gin.Context) {
	var req transport.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.Confirm(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
