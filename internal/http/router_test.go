package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bodegaresearch/go-review-backend/internal/config"
	"github.com/bodegaresearch/go-review-backend/internal/domain"
	"github.com/bodegaresearch/go-review-backend/internal/repo"
)

type stubAnalyzer struct{}

func (stubAnalyzer) Generate(_ context.Context, _ string, _ domain.RawNotes) (*domain.AIAnalysis, error) {
	return &domain.AIAnalysis{
		PublicReceipt: domain.PublicReceipt{
			TheAlpha:        []string{"a", "b", "c"},
			TheFriction:     []string{"d", "e", "f"},
			Recommendations: []string{"g", "h", "i"},
			Scores:          domain.ReceiptScores{PMF: 8, UI: 7, Sentiment: 9, Overall: 8.0},
		},
		PrivateReport:      "Report.",
		MarketIntelligence: domain.MarketIntelligence{Sector: "DeFi", TAM: "$1B"},
	}, nil
}

func testConfig() config.Config {
	return config.Config{
		GinMode:        gin.TestMode,
		APIBasePath:    "/api/v1",
		AdminAPIToken:  "admin-token",
		PublicBaseURL:  "https://bodega.example.com",
		SwaggerEnabled: false,
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
		Storage: config.StorageConfig{
			PublicBucket:  "pub",
			PrivateBucket: "priv",
			SignedURLTTL:  time.Hour,
		},
	}
}

func newRouter(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	r := gin.New()
	RegisterRoutes(r, db, stubAnalyzer{}, nil, nil, cfg)
	return r
}

func TestRouter_Health(t *testing.T) {
	r := newRouter(t, testConfig())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("health body = %s", w.Body.String())
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	r := newRouter(t, testConfig())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("metrics body missing counters")
	}
}

func TestRouter_NoRouteEnvelope(t *testing.T) {
	r := newRouter(t, testConfig())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["success"] != false || body["code"] != "not_found" {
		t.Fatalf("body = %v", body)
	}
}

func TestRouter_NoMethodEnvelope(t *testing.T) {
	r := newRouter(t, testConfig())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/reviews", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "method_not_allowed") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestRouter_PublicEndpointsOpen(t *testing.T) {
	r := newRouter(t, testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list reviews status = %d, body %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}
	if w.Header().Get("ETag") == "" {
		t.Fatalf("expected ETag on review list")
	}

	// Lead intake needs no token.
	payload := `{"name":"Jane","email":"jane@example.com"}`
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create lead status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestRouter_AdminEndpointsGated(t *testing.T) {
	r := newRouter(t, testConfig())

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/generate-report"},
		{http.MethodPost, "/api/v1/generate-pdf"},
		{http.MethodDelete, "/api/v1/reviews/" + uuid.NewString()},
	}
	for _, p := range paths {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(p.method, p.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without token = %d; want 401", p.method, p.path, w.Code)
		}
	}

	// With the right token the delete proceeds to business logic (404 for a
	// review that does not exist).
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("authorized delete of missing review = %d; want 404", w.Code)
	}
}

func TestRouter_ListReviewsETagRoundTrip(t *testing.T) {
	r := newRouter(t, testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil))
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("no ETag on first response")
	}

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)
	req.Header.Set("If-None-Match", etag)
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusNotModified {
		t.Fatalf("conditional get = %d; want 304", w2.Code)
	}
}

func TestRouter_CORSAllowAllDefault(t *testing.T) {
	r := newRouter(t, testConfig())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("ACAO = %q; want *", got)
	}
}

func TestRouter_CORSAllowlist(t *testing.T) {
	cfg := testConfig()
	cfg.CORS.AllowedOrigins = []string{"https://app.example.com"}
	r := newRouter(t, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("ACAO = %q; want origin echoed", got)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w2, req2)
	if got := w2.Header().Get("Access-Control-Allow-Origin"); got == "https://evil.example.com" {
		t.Fatalf("disallowed origin was echoed")
	}
}

func TestRouter_GenerateReportPipeline(t *testing.T) {
	r := newRouter(t, testConfig())

	form := url.Values{}
	form.Set("projectName", "ChainWorks")
	form.Set("rawNotes", `{"aisle1_pmf":"a","aisle2_uiux":"b","aisle3_general":"c","aisle4_sentiment":"d"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate-report", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer admin-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("generate-report = %d, body %s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data := body["data"].(map[string]any)
	if data["project_name"] != "ChainWorks" || data["rating_score"] != 8.0 {
		t.Fatalf("data = %v", data)
	}
}
