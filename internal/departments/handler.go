package departments

import (
	"net/http"
	"strconv"
	"strings"

	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/httpkit"
	"chanitec_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// DepartmentRequest is the body of create and update.
type DepartmentRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// Handler handles department requests.
type Handler struct {
	store Store
	val   *validator.Validator
}

// NewHandler creates a department handler.
func NewHandler(store Store, val *validator.Validator) *Handler {
	return &Handler{store: store, val: val}
}

// RegisterRoutes mounts the department routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
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
	id, ok := parseID(c)
	if !ok {
		return
	}
	dept, err := h.store.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, dept)
}

func (h *Handler) Create(c *gin.Context) {
	name, ok := h.bindName(c)
	if !ok {
		return
	}
	dept, err := h.store.Create(c.Request.Context(), name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, dept)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	name, ok := h.bindName(c)
	if !ok {
		return
	}
	dept, err := h.store.Rename(c.Request.Context(), id, name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, dept)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) bindName(c *gin.Context) (string, bool) {
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return "", false
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation("Name is required"))
		return "", false
	}
	return req.Name, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("Invalid department ID"))
		return 0, false
	}
	return id, true
}
