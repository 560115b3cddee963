// Package quotes provides the quote aggregate module: quote headers with
// their supply and labor items.
package quotes

import (
	"chanitec_backend/internal/adapters/storage"
	"chanitec_backend/internal/events"
	apphttp "chanitec_backend/internal/http"
	"chanitec_backend/internal/quotes/handler"
	"chanitec_backend/internal/quotes/repository"
	"chanitec_backend/internal/quotes/service"
	"chanitec_backend/platform/httpkit"
	"chanitec_backend/platform/logger"
	"chanitec_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quotes domain module
type Module struct {
	handler *handler.Handler
	supply  *handler.SupplyHandler
	labor   *handler.LaborHandler
	service *service.Service
}

// NewModule creates a new quotes module with all dependencies wired
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, metrics *httpkit.Metrics, log *logger.Logger) *Module {
	repo := repository.New(pool, log)
	svc := service.New(repo, service.NewPayloadValidator(val), log)
	svc.SetEventBus(eventBus)
	svc.SetMetrics(metrics)

	return &Module{
		handler: handler.New(svc),
		supply:  handler.NewSupplyHandler(svc),
		labor:   handler.NewLaborHandler(svc),
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// Handler exposes the quote handler so the caller can brand generated PDFs.
func (m *Module) Handler() *handler.Handler {
	return m.handler
}

// SetPDFArchive serves confirmed quotes from the bucket their PDFs are archived in.
func (m *Module) SetPDFArchive(svc storage.StorageService, bucket string) {
	m.handler.SetPDFArchive(svc, bucket)
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/quotes"))
	m.supply.RegisterRoutes(ctx.API.Group("/supply-items"))
	m.labor.RegisterRoutes(ctx.API.Group("/labor-items"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
