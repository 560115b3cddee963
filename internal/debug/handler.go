package debug

import (
	"strings"
	"time"

	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/db"
	"chanitec_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const sampleSites = 5

// PoolStatter reports connection pool usage.
type PoolStatter interface {
	Stats() db.PoolStats
}

// Handler serves diagnostic endpoints.
type Handler struct {
	store Store
	pool  PoolStatter
	now   func() time.Time
}

// NewHandler creates a debug handler.
func NewHandler(store Store, pool PoolStatter) *Handler {
	return &Handler{store: store, pool: pool, now: time.Now}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Info)
	rg.GET("/database-structure", h.DatabaseStructure)
	rg.GET("/test-site-lookup/:clientId", h.TestSiteLookup)
}

// Info handles GET /api/debug
func (h *Handler) Info(c *gin.Context) {
	tables, err := h.store.Tables(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}

	httpkit.OK(c, gin.H{
		"status":    "debug",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"database": gin.H{
			"tables":     len(tables),
			"tableNames": names,
			"rowCounts":  tables,
		},
		"connectionPool": h.pool.Stats(),
		"endpoints": gin.H{
			"databaseStructure": "/api/debug/database-structure",
			"testSiteLookup":    "/api/debug/test-site-lookup/:clientId",
		},
	})
}

// DatabaseStructure handles GET /api/debug/database-structure
func (h *Handler) DatabaseStructure(c *gin.Context) {
	ctx := c.Request.Context()
	columns, err := h.store.Columns(ctx)
	if httpkit.HandleError(c, err) {
		return
	}
	relationships, err := h.store.Relationships(ctx)
	if httpkit.HandleError(c, err) {
		return
	}

	tables := make([]string, 0)
	structures := make(map[string][]Column)
	for _, col := range columns {
		if _, seen := structures[col.Table]; !seen {
			tables = append(tables, col.Table)
		}
		structures[col.Table] = append(structures[col.Table], col)
	}

	httpkit.OK(c, gin.H{
		"tables":        tables,
		"structures":    structures,
		"relationships": relationships,
	})
}

// TestSiteLookup handles GET /api/debug/test-site-lookup/:clientId
func (h *Handler) TestSiteLookup(c *gin.Context) {
	clientID := strings.TrimSpace(c.Param("clientId"))
	if clientID == "" {
		httpkit.HandleError(c, apperr.Validation("Client ID is required"))
		return
	}

	ctx := c.Request.Context()
	name, err := h.store.ClientName(ctx, clientID)
	if httpkit.HandleError(c, err) {
		return
	}
	all, err := h.store.Sites(ctx)
	if httpkit.HandleError(c, err) {
		return
	}

	matching := make([]SiteSample, 0)
	samples := make([]gin.H, 0, sampleSites)
	for i, s := range all {
		if s.ClientID == clientID {
			matching = append(matching, s)
		}
		if i < sampleSites {
			samples = append(samples, gin.H{"id": s.ID, "name": s.Name, "client_id": s.ClientID, "matches": s.ClientID == clientID})
		}
	}

	httpkit.OK(c, gin.H{
		"client":             gin.H{"id": clientID, "name": name},
		"clientSites":        matching,
		"allSitesCount":      len(all),
		"matchingSitesCount": len(matching),
		"sampleSites":        samples,
	})
}
