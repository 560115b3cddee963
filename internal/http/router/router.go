// Package router assembles the gin engine from the application modules.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "chanitec_backend/internal/http"
	"chanitec_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const healthTimeout = 2 * time.Second

// endpointIndex is served at GET /api.
var endpointIndex = gin.H{
	"message": "Chanitec API",
	"endpoints": gin.H{
		"health":      "/api/health",
		"quotes":      "/api/quotes",
		"supplyItems": "/api/supply-items/:quoteId",
		"laborItems":  "/api/labor-items/:quoteId",
		"clients":     "/api/clients",
		"sites":       "/api/sites",
		"items":       "/api/items",
		"splits":      "/api/splits",
		"employees":   "/api/employees",
		"departments": "/api/departments",
	},
}

// New builds the engine: global middleware, root endpoints, then every module under /api.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))
	engine.Use(app.Metrics.Middleware())

	engine.GET("/", func(c *gin.Context) {
		httpkit.OK(c, gin.H{"message": "Welcome to the Chanitec API"})
	})
	engine.GET("/metrics", gin.WrapH(app.Metrics.Handler()))

	limiter := httpkit.NewIPRateLimiter(rate.Limit(app.Config.GetRateLimitRPS()), app.Config.GetRateLimitBurst(), app.Logger)
	api := engine.Group("/api")
	api.Use(limiter.RateLimit())

	api.GET("", func(c *gin.Context) {
		httpkit.OK(c, endpointIndex)
	})
	api.GET("/health", healthHandler(app.Health))

	routerCtx := &apphttp.RouterContext{
		Engine: engine,
		API:    api,
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Debug("module routes registered", "module", module.Name())
	}

	return engine
}

func healthHandler(health apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := health.Ping(ctx); err != nil {
				httpkit.Error(c, http.StatusServiceUnavailable, "database unavailable", err.Error())
				return
			}
		}
		httpkit.OK(c, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	}
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{httpkit.HeaderRequestID, "Content-Disposition"},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}
	return corsCfg
}
