// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, error translation, panic
// recovery, metrics, CORS, security headers, authentication, idempotency, and
// rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - One error path: every failure is rendered by errhandler.ErrorHandler
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/apperr"
	"github.com/smartsupply/inventory-service/internal/auth"
	"github.com/smartsupply/inventory-service/internal/config"
	"github.com/smartsupply/inventory-service/internal/docs"
	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/http/errhandler"
	"github.com/smartsupply/inventory-service/internal/http/handlers"
	"github.com/smartsupply/inventory-service/internal/http/middleware"
	"github.com/smartsupply/inventory-service/internal/repo"
	"github.com/smartsupply/inventory-service/internal/services"
)

const (
	msgRouteNotFound    = "Resource not found"
	msgMethodNotAllowed = "Method not allowed"
)

var (
	corsMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey, "If-None-Match"}
	corsExpose  = []string{"X-Request-ID", "Content-Length", "ETag", handlers.HeaderReplayed}
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), the error chain,
// CORS and security headers, health and metrics endpoints, and then mounts
// the authenticated API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. gzip: wraps the writer before anything writes a body
//  5. ErrorHandler: renders every failure reported below it
//  6. Recovery: panics become internal errors on the context
//  7. Body size limiter
//  8. Metrics
//  9. CORS and Security headers
//
// and on the API group:
//  10. Authenticate: bearer token, principal on the context
//  11. Idempotency validator (before rate limiter to allow bypass on replay)
//  12. Rate limiter (per user/IP, bypass on replay)
//  13. Role guards per route
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	handlers.RegisterValidation()

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		SkipPaths: []string{"/health", "/metrics"},
	}))

	// 4) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics", "/swagger"})))

	// 5) Error translation for everything that runs after it
	r.Use(errhandler.ErrorHandler(errhandler.Options{}))

	// 6) Panic recovery
	r.Use(middleware.Recovery())

	// 7) Global body size limit
	r.Use(limitBody(cfg.MaxBodyBytes))

	// 8) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics(middleware.MetricsOptions{SkipPaths: []string{"/metrics"}}))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		errhandler.Fail(c, apperr.NotFound(msgRouteNotFound))
	})
	r.NoMethod(func(c *gin.Context) {
		errhandler.Fail(c, apperr.Status(http.StatusMethodNotAllowed, msgMethodNotAllowed))
	})

	// Dependency injection: services ← repo/db
	store := repo.Store{}
	idem := services.NewIdempotencyService(db, store, cfg.IdempotencyTTL)
	h := handlers.New(handlers.Deps{
		Suppliers:   services.NewSupplierService(db, store),
		Items:       services.NewItemService(db, store, cfg.Inventory.LowStockDefaultMin),
		History:     services.NewHistoryService(db, store),
		Analytics:   services.NewAnalyticsService(db, store, cfg.Inventory.LowStockDefaultMin),
		Idempotency: idem,
		ItemsStats: func(ctx context.Context) (int64, *time.Time, error) {
			return repo.ItemsStats(ctx, db)
		},
		Ping: func(ctx context.Context) error {
			return repo.Ping(ctx, db)
		},
		MaxPageSize: cfg.Inventory.MaxPageSize,
	})

	// Liveness/readiness
	r.GET("/health", h.Health)
	r.GET("/health/db", h.HealthDB)

	// API docs
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Authenticated API
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(
		auth.Authenticate(auth.NewVerifier(cfg.Auth)),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idem.Exists),
		rl.Handler(),
	)
	mountAPI(api, h)
}

// mountAPI registers the versioned endpoints and their role guards. All
// routes require authentication; admin marks the ADMIN-only ones.
func mountAPI(api *gin.RouterGroup, h *handlers.Handlers) {
	admin := auth.RequireRole(domain.RoleAdmin)
	anyRole := auth.RequireRole(domain.RoleAdmin, domain.RoleUser)

	api.GET("/me", h.Me)

	// Suppliers
	sup := api.Group("/suppliers")
	{
		sup.GET("", anyRole, h.ListSuppliers)
		sup.GET("/search", anyRole, h.SearchSuppliers)
		sup.GET("/:id", anyRole, h.GetSupplier)
		sup.POST("", admin, h.CreateSupplier)
		sup.PUT("/:id", admin, h.UpdateSupplier)
		sup.DELETE("/:id", admin, h.DeleteSupplier)
	}

	// Inventory items
	inv := api.Group("/inventory")
	{
		inv.GET("", anyRole, h.ListItems)
		inv.GET("/search", anyRole, h.SearchItems)
		inv.GET("/:id", anyRole, h.GetItem)
		inv.POST("", admin, h.CreateItem)
		inv.PUT("/:id", anyRole, h.UpdateItem)
		inv.PATCH("/:id/quantity", anyRole, h.AdjustQuantity)
		inv.PATCH("/:id/price", admin, h.UpdatePrice)
		inv.DELETE("/:id", admin, h.DeleteItem)
	}

	// Stock history
	hist := api.Group("/stock-history", anyRole)
	{
		hist.GET("", h.ListHistory)
		hist.GET("/search", h.SearchHistory)
		hist.GET("/item/:itemId", h.HistoryByItem)
		hist.GET("/reason/:reason", h.HistoryByReason)
	}

	// Analytics
	an := api.Group("/analytics", anyRole)
	{
		an.GET("/summary", h.Summary)
		an.GET("/stock-per-supplier", h.StockPerSupplier)
		an.GET("/low-stock-items", h.LowStock)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
