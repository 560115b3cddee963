// Package splits provides CRUD over the air-conditioning units installed on sites.
package splits

import (
	apphttp "chanitec_backend/internal/http"
	"chanitec_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the splits module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the splits module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(NewRepository(pool), val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "splits"
}

// RegisterRoutes mounts the split routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/splits"))
}

var _ apphttp.Module = (*Module)(nil)
