// Package debug exposes database and pool diagnostics.
package debug

import (
	apphttp "chanitec_backend/internal/http"
	"chanitec_backend/platform/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *Handler
}

func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{handler: NewHandler(NewRepository(pool), db.NewPoolAdapter(pool))}
}

func (m *Module) Name() string {
	return "debug"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/debug"))
}

var _ apphttp.Module = (*Module)(nil)
