package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "leadrouter/internal/http"
	"leadrouter/platform/config"
	"leadrouter/platform/logger"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

func (echoModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/echo", func(c *gin.Context) { c.String(http.StatusOK, "echo") })
}

func newApp(health apphttp.HealthChecker) *apphttp.App {
	return &apphttp.App{
		Config: &config.Config{
			CORSOrigins:      []string{"http://localhost:3000"},
			WebhookRateLimit: 5,
			WebhookRateBurst: 20,
		},
		Logger:  logger.Discard(),
		Health:  health,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
		Modules: []apphttp.Module{echoModule{}},
	}
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	if w := serve(New(newApp(pinger{})), httptest.NewRequest(http.MethodGet, "/health", nil)); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	down := New(newApp(pinger{err: errors.New("db down")}))
	if w := serve(down, httptest.NewRequest(http.MethodGet, "/health", nil)); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestModulesMountUnderV1(t *testing.T) {
	w := serve(New(newApp(nil)), httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil))
	if w.Code != http.StatusOK || w.Body.String() != "echo" {
		t.Fatalf("expected echo, got %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	w := serve(New(newApp(nil)), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || w.Body.String() != "# metrics" {
		t.Fatalf("unexpected metrics response: %d %q", w.Code, w.Body.String())
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(New(newApp(nil)), req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil)
	req.Header.Set("Origin", "http://evil.example")
	if w := serve(New(newApp(nil)), req); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown origin, got %d", w.Code)
	}
}
