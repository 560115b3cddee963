// Package departments provides CRUD over the department lookup table.
package departments

import (
	apphttp "chanitec_backend/internal/http"
	"chanitec_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the departments module implementing http.Module.
type Module struct {
	handler *Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(NewRepository(pool), val)}
}

func (m *Module) Name() string {
	return "departments"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/departments"))
}

var _ apphttp.Module = (*Module)(nil)
