// Command server runs the due-diligence review backend: an HTTP API that
// generates AI-backed project reviews, renders their PDF artifacts into
// object storage, and accepts public lead submissions.
//
// Startup order: environment (.env optional) → config → logging → tracing →
// database → external clients (Anthropic, S3, Resend) → router → HTTP server
// with graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/bodegaresearch/go-review-backend/internal/analysis"
	"github.com/bodegaresearch/go-review-backend/internal/config"
	httpapi "github.com/bodegaresearch/go-review-backend/internal/http"
	"github.com/bodegaresearch/go-review-backend/internal/mail"
	"github.com/bodegaresearch/go-review-backend/internal/observability"
	"github.com/bodegaresearch/go-review-backend/internal/repo"
	"github.com/bodegaresearch/go-review-backend/internal/storage"
	"github.com/bodegaresearch/go-review-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// @title        Bodega Research Review API
// @version      1.0
// @description  Web3 due-diligence reviews: AI analysis, weighted scoring, PDF artifacts, and lead intake.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin API token.
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Logging
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty || sysutil.IsTruthy(os.Getenv("LOG_PRETTY")) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Info().Str("version", version).Str("gin_mode", cfg.GinMode).Msg("starting")

	ctx := context.Background()

	// Tracing
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			log.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	// Database
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}
	if cfg.OTEL.Enabled {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			log.Warn().Err(err).Msg("gorm tracing plugin failed")
		}
	}

	// AI client (required: the admin pipeline cannot run without it)
	aiClient, err := analysis.NewClient(analysis.ClientConfig{
		APIKey:    cfg.Anthropic.APIKey,
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("anthropic client setup failed")
	}
	requestor := analysis.NewRequestor(aiClient)

	// Object storage (optional: artifact endpoints fail cleanly without it)
	var store storage.ObjectStore
	if cfg.Storage.Endpoint != "" {
		s, err := storage.NewMinioStore(storage.Config{
			Endpoint:      cfg.Storage.Endpoint,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			UseSSL:        cfg.Storage.UseSSL,
			PublicBucket:  cfg.Storage.PublicBucket,
			PrivateBucket: cfg.Storage.PrivateBucket,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("object storage setup failed")
		}
		store = s
	} else {
		log.Warn().Msg("object storage not configured; artifact rendering disabled")
	}

	// Mail (optional: nil notifier skips lead emails)
	from := sysutil.FirstNonEmpty(cfg.Mail.From, "Bodega Research <onboarding@resend.dev>")
	notifier := mail.NewResendNotifier(cfg.Mail.ResendAPIKey, from, cfg.Mail.AdminEmail)
	if notifier == nil {
		log.Info().Msg("lead notifications disabled (no resend key or admin email)")
	}

	// Router
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, requestor, store, notifier, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	stop, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	log.Info().Msg("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
