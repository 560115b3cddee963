package items

import (
	"context"
	"io"
	"net/http"
	"strings"

	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/httpkit"
	"chanitec_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest  = "Invalid request body"
	msgMissingFields   = "Missing required fields"
	msgNoFile          = "No file uploaded"
	msgUnsupportedFile = "Only .xlsx and .csv files are supported"
	msgFileTooLarge    = "File exceeds the maximum upload size"
)

var requiredItemFields = []string{"description", "price", "quantity"}

// ItemRequest is the body of create and update. A zero price counts as missing.
type ItemRequest struct {
	ID          string  `json:"id"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Quantity    *int32  `json:"quantity" validate:"required,gte=0"`
}

// SheetImporter imports an uploaded price list.
type SheetImporter interface {
	Import(ctx context.Context, fileName string, data []byte) (ImportResult, error)
}

// Handler handles item requests.
type Handler struct {
	store    Store
	importer SheetImporter
	val      *validator.Validator
	maxSize  int64
}

// NewHandler creates an item handler. maxSize bounds uploads; zero means no limit.
func NewHandler(store Store, importer SheetImporter, val *validator.Validator, maxSize int64) *Handler {
	return &Handler{store: store, importer: importer, val: val, maxSize: maxSize}
}

// RegisterRoutes mounts the item routes. Fixed paths come before /:id.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/import", h.Import)
	rg.DELETE("/clear", h.Clear)
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

func (h *Handler) Get(c *gin.Context) {
	item, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, item)
}

// Create keeps a caller-supplied id and generates one otherwise.
func (h *Handler) Create(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	created, err := h.store.Create(c.Request.Context(), Item{
		ID:          id,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, created)
}

func (h *Handler) Update(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	updated, err := h.store.Update(c.Request.Context(), Item{
		ID:          c.Param("id"),
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
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

// Clear handles DELETE /api/items/clear
func (h *Handler) Clear(c *gin.Context) {
	deleted, err := h.store.Clear(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"message": "All items cleared", "deleted": deleted})
}

// Import handles POST /api/items/import with a multipart "file" field.
func (h *Handler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgNoFile))
		return
	}
	if !SupportedExtension(fh.Filename) {
		httpkit.HandleError(c, apperr.BadRequest(msgUnsupportedFile))
		return
	}
	if h.maxSize > 0 && fh.Size > h.maxSize {
		httpkit.HandleError(c, apperr.BadRequest(msgFileTooLarge))
		return
	}

	f, err := fh.Open()
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "Error reading uploaded file", err))
		return
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "Error reading uploaded file", err))
		return
	}

	result, err := h.importer.Import(c.Request.Context(), fh.Filename, data)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) bind(c *gin.Context) (ItemRequest, bool) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return req, false
	}
	req.Description = strings.TrimSpace(req.Description)
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgMissingFields).WithDetails(gin.H{"required": requiredItemFields}))
		return req, false
	}
	return req, true
}
