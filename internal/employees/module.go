// Package employees provides CRUD over the staff register.
package employees

import (
	apphttp "chanitec_backend/internal/http"
	"chanitec_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the employees module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the employees module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(NewRepository(pool), val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "employees"
}

// RegisterRoutes mounts the employee routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/employees"))
}

var _ apphttp.Module = (*Module)(nil)
