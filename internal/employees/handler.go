package employees

import (
	"net/http"
	"strconv"
	"strings"

	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/httpkit"
	"chanitec_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest = "Invalid request body"
	msgRequiredFields = "All required fields must be provided"
	msgInvalidID      = "Invalid employee ID"
)

// EmployeeRequest is the body of create and update.
type EmployeeRequest struct {
	FullName        string  `json:"full_name" validate:"required,max=100"`
	CivilStatus     string  `json:"civil_status" validate:"required,len=1"`
	BirthDate       string  `json:"birth_date" validate:"required,calendardate"`
	EntryDate       string  `json:"entry_date" validate:"required,calendardate"`
	Seniority       string  `json:"seniority" validate:"required,max=50"`
	ContractType    string  `json:"contract_type" validate:"required,max=20"`
	JobTitle        string  `json:"job_title" validate:"required,max=150"`
	Fonction        string  `json:"fonction" validate:"required,max=200"`
	SubTypeID       *int32  `json:"sub_type_id"`
	TypeDescription *string `json:"type_description"`
}

// Handler handles employee requests.
type Handler struct {
	store Store
	val   *validator.Validator
}

// NewHandler creates an employee handler.
func NewHandler(store Store, val *validator.Validator) *Handler {
	return &Handler{store: store, val: val}
}

// RegisterRoutes mounts the employee routes.
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
	employee, err := h.store.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, employee)
}

func (h *Handler) Create(c *gin.Context) {
	employee, ok := h.bind(c)
	if !ok {
		return
	}
	created, err := h.store.Create(c.Request.Context(), employee)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, created)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	employee, ok := h.bind(c)
	if !ok {
		return
	}
	employee.ID = id

	updated, err := h.store.Update(c.Request.Context(), employee)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, updated)
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

func (h *Handler) bind(c *gin.Context) (Employee, bool) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return Employee{}, false
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.CivilStatus = strings.ToUpper(strings.TrimSpace(req.CivilStatus))
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgRequiredFields).WithDetails(validator.FailedFields(err)))
		return Employee{}, false
	}

	birth, _ := validator.ParseDate(req.BirthDate)
	entry, _ := validator.ParseDate(req.EntryDate)
	return Employee{
		FullName:        req.FullName,
		CivilStatus:     req.CivilStatus,
		BirthDate:       birth,
		EntryDate:       entry,
		Seniority:       req.Seniority,
		ContractType:    req.ContractType,
		JobTitle:        req.JobTitle,
		Fonction:        req.Fonction,
		SubTypeID:       req.SubTypeID,
		TypeDescription: req.TypeDescription,
	}, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidID))
		return 0, false
	}
	return id, true
}
