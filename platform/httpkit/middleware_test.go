package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"leadrouter/platform/apperr"
	"leadrouter/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestBearerSecret(t *testing.T) {
	cases := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{name: "disabled", secret: "", header: "", want: http.StatusNoContent},
		{name: "missing", secret: "s3cret", header: "", want: http.StatusUnauthorized},
		{name: "wrong", secret: "s3cret", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "not bearer", secret: "s3cret", header: "Basic s3cret", want: http.StatusUnauthorized},
		{name: "match", secret: "s3cret", header: "Bearer s3cret", want: http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newEngine(BearerSecret(tc.secret))
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 2, logger.Discard())
	r := newEngine(limiter.RateLimit())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent {
		t.Fatalf("expected burst of 2 to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request to be limited, got %d", codes[2])
	}
}

func TestHandleErrorMapsKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: apperr.NotFound("lead not found"), want: http.StatusNotFound},
		{name: "validation", err: apperr.Validation("invalid transition"), want: http.StatusBadRequest},
		{name: "conflict", err: apperr.Conflict("changed"), want: http.StatusConflict},
		{name: "untyped", err: http.ErrBodyNotAllowed, want: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			if !HandleError(c, tc.err) {
				t.Fatal("expected error to be handled")
			}
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}
