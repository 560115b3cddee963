// Package sites provides CRUD over client installation sites.
package sites

import (
	apphttp "chanitec_backend/internal/http"
	"chanitec_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the sites module implementing http.Module.
type Module struct {
	handler *Handler
	repo    *Repository
}

// NewModule creates the sites module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	return &Module{handler: NewHandler(repo, val), repo: repo}
}

// Repository exposes the site store to the clients module.
func (m *Module) Repository() *Repository {
	return m.repo
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "sites"
}

// RegisterRoutes mounts the site routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/sites"))
}

var _ apphttp.Module = (*Module)(nil)
