// Package items provides the item catalogue and its spreadsheet import.
package items

import (
	"chanitec_backend/internal/adapters/storage"
	"chanitec_backend/internal/events"
	apphttp "chanitec_backend/internal/http"
	"chanitec_backend/platform/logger"
	"chanitec_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the items module implementing http.Module.
type Module struct {
	handler  *Handler
	importer *Importer
}

// NewModule creates the items module. maxUpload bounds import uploads in bytes.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, maxUpload int64, log *logger.Logger) *Module {
	repo := NewRepository(pool, log)
	importer := NewImporter(repo, log)
	importer.SetEventBus(eventBus)
	return &Module{
		handler:  NewHandler(repo, importer, val, maxUpload),
		importer: importer,
	}
}

// SetArchive archives every uploaded spreadsheet to bucket.
func (m *Module) SetArchive(svc storage.StorageService, bucket string) {
	m.importer.SetArchive(svc, bucket)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "items"
}

// RegisterRoutes mounts the item routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/items"))
}

var _ apphttp.Module = (*Module)(nil)
