// Package clients provides CRUD over customers and their sites.
package clients

import (
	apphttp "chanitec_backend/internal/http"
	"chanitec_backend/platform/phone"
	"chanitec_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the clients module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the clients module.
func NewModule(pool *pgxpool.Pool, siteLister SiteLister, phones *phone.Normalizer, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(NewRepository(pool), siteLister, phones, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "clients"
}

// RegisterRoutes mounts the client routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/clients"))
}

var _ apphttp.Module = (*Module)(nil)
