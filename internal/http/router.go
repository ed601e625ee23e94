// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS, and
// security headers.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/bodegaresearch/go-review-backend/docs"
	"github.com/bodegaresearch/go-review-backend/internal/config"
	"github.com/bodegaresearch/go-review-backend/internal/domain"
	"github.com/bodegaresearch/go-review-backend/internal/http/handlers"
	"github.com/bodegaresearch/go-review-backend/internal/http/middleware"
	"github.com/bodegaresearch/go-review-backend/internal/mail"
	"github.com/bodegaresearch/go-review-backend/internal/repo"
	"github.com/bodegaresearch/go-review-backend/internal/services"
	"github.com/bodegaresearch/go-review-backend/internal/storage"
)

// reviewRepoShim adapts the repository free functions to the
// services.ReviewRepo interface expected by the ReviewService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type reviewRepoShim struct{}

// CreateReview proxies repo.CreateReview.
func (reviewRepoShim) CreateReview(ctx context.Context, db *gorm.DB, projectName string, brandImageURL *string, notes domain.RawNotes, analysis domain.AIAnalysis, score float64) (*domain.Review, error) {
	return repo.CreateReview(ctx, db, projectName, brandImageURL, notes, analysis, score)
}

// ListReviews proxies repo.ListReviews.
func (reviewRepoShim) ListReviews(ctx context.Context, db *gorm.DB) ([]domain.Review, error) {
	return repo.ListReviews(ctx, db)
}

// CountReviews proxies repo.CountReviews (pagination support).
func (reviewRepoShim) CountReviews(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountReviews(ctx, db)
}

// ListReviewsPage proxies repo.ListReviewsPage (pagination support).
func (reviewRepoShim) ListReviewsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Review, error) {
	return repo.ListReviewsPage(ctx, db, offset, limit)
}

// GetReview proxies repo.GetReview.
func (reviewRepoShim) GetReview(ctx context.Context, db *gorm.DB, id string) (*domain.Review, error) {
	return repo.GetReview(ctx, db, id)
}

// UpdateArtifactURL proxies repo.UpdateArtifactURL.
func (reviewRepoShim) UpdateArtifactURL(ctx context.Context, db *gorm.DB, id, column, url string) error {
	return repo.UpdateArtifactURL(ctx, db, id, column, url)
}

// DeleteReview proxies repo.DeleteReview.
func (reviewRepoShim) DeleteReview(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteReview(ctx, db, id)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), CORS and security
// headers, health and metrics endpoints, and then mounts the versioned public
// API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured request logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, ai services.Analyzer, store storage.ObjectStore, notifier mail.Notifier, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (10 MiB; generate-report carries image uploads)
	r.Use(limitBody(10 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
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
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/ai/storage/mail
	reviewSvc := services.NewReviewService(db, reviewRepoShim{}, ai, store,
		cfg.Storage.PublicBucket, cfg.Storage.PrivateBucket)
	reviewSvc.SignedURLTTL = cfg.Storage.SignedURLTTL
	reviewSvc.PublicBaseURL = cfg.PublicBaseURL

	leadSvc := services.NewLeadService(db, notifier)
	h := handlers.New(reviewSvc, leadSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Reviews (public reads)
		api.GET("/reviews", h.ListReviews)
		api.GET("/reviews/:id", h.GetReview)

		// Leads (public intake)
		api.POST("/leads", h.CreateLead)

		// Admin pipeline (bearer token)
		admin := api.Group("", middleware.AdminAuth(cfg.AdminAPIToken))
		admin.POST("/generate-report", h.GenerateReport)
		admin.POST("/generate-pdf", h.GeneratePDF)
		admin.DELETE("/reviews/:id", h.DeleteReview)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
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
