// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, the Anthropic client,
// object storage, email, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-review-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// AnthropicConfig defines the AI analysis client settings.
type AnthropicConfig struct {
	APIKey    string // ANTHROPIC_API_KEY (required for generation)
	Model     string // ANTHROPIC_MODEL
	MaxTokens int    // ANTHROPIC_MAX_TOKENS
}

// MailConfig defines the Resend notification settings. When APIKey or
// AdminEmail is empty, lead notifications are silently skipped.
type MailConfig struct {
	ResendAPIKey string // RESEND_API_KEY
	AdminEmail   string // ADMIN_EMAIL
	From         string // MAIL_FROM
}

// StorageConfig defines the S3-compatible object storage settings.
type StorageConfig struct {
	Endpoint      string        // S3_ENDPOINT (host:port, no scheme)
	AccessKey     string        // S3_ACCESS_KEY
	SecretKey     string        // S3_SECRET_KEY
	UseSSL        bool          // S3_USE_SSL
	PublicBucket  string        // S3_PUBLIC_BUCKET
	PrivateBucket string        // S3_PRIVATE_BUCKET
	SignedURLTTL  time.Duration // SIGNED_URL_TTL for private report links
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath        string // SQLite path
	AdminAPIToken string // bearer token for admin endpoints
	PublicBaseURL string // site URL printed in PDF footers

	// External services
	Anthropic AnthropicConfig
	Mail      MailConfig
	Storage   StorageConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath:        getenv("DB_PATH", "app.db"),
		AdminAPIToken: getenv("ADMIN_API_TOKEN", ""),
		PublicBaseURL: baseURL(),

		// External services
		Anthropic: AnthropicConfig{
			APIKey:    getenv("ANTHROPIC_API_KEY", ""),
			Model:     getenv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
			MaxTokens: getint("ANTHROPIC_MAX_TOKENS", 4096),
		},
		Mail: MailConfig{
			ResendAPIKey: getenv("RESEND_API_KEY", ""),
			AdminEmail:   getenv("ADMIN_EMAIL", ""),
			From:         getenv("MAIL_FROM", ""),
		},
		Storage: StorageConfig{
			Endpoint:      getenv("S3_ENDPOINT", ""),
			AccessKey:     getenv("S3_ACCESS_KEY", ""),
			SecretKey:     getenv("S3_SECRET_KEY", ""),
			UseSSL:        getbool("S3_USE_SSL", true),
			PublicBucket:  getenv("S3_PUBLIC_BUCKET", "public-infographics"),
			PrivateBucket: getenv("S3_PRIVATE_BUCKET", "private-reports"),
			SignedURLTTL:  getdur("SIGNED_URL_TTL", 168*time.Hour),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-review-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.Anthropic.MaxTokens <= 0 {
		return cfg, errors.New("ANTHROPIC_MAX_TOKENS must be > 0")
	}
	if strings.TrimSpace(cfg.Storage.PublicBucket) == "" || strings.TrimSpace(cfg.Storage.PrivateBucket) == "" {
		return cfg, errors.New("S3_PUBLIC_BUCKET and S3_PRIVATE_BUCKET must not be empty")
	}
	if cfg.Storage.SignedURLTTL <= 0 {
		return cfg, errors.New("SIGNED_URL_TTL must be > 0")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// baseURL resolves the public site URL used for asset links in PDF footers:
// PUBLIC_BASE_URL first, then the platform host (SITE_HOST), then localhost.
func baseURL() string {
	if v := getenv("PUBLIC_BASE_URL", ""); v != "" {
		return strings.TrimRight(v, "/")
	}
	if host := getenv("SITE_HOST", ""); host != "" {
		return "https://" + host
	}
	return "http://localhost:8080"
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
