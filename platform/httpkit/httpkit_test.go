package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestHandleErrorUsesKindStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	wrapped := fmt.Errorf("lookup: %w", apperr.NotFound("Quote not found"))
	if !HandleError(c, wrapped) {
		t.Fatal("expected error to be handled")
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Error != "Quote not found" {
		t.Fatalf("unexpected message %q", body.Error)
	}
}

func TestHandleErrorUntypedIsInternalWithDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	HandleError(c, errors.New("connection refused"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Details != "connection refused" {
		t.Fatalf("expected details to carry the cause, got %v", body.Details)
	}
	if len(c.Errors) != 1 {
		t.Fatalf("expected error to be recorded on the context, got %d", len(c.Errors))
	}
}

func TestHandleErrorNil(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	if HandleError(c, nil) {
		t.Fatal("expected nil error to be ignored")
	}
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	var seen string
	engine.GET("/", func(c *gin.Context) {
		seen, _ = c.Request.Context().Value(logger.RequestIDKey).(string)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(HeaderRequestID) != seen {
		t.Fatalf("expected generated id to be echoed, ctx=%q header=%q", seen, rec.Header().Get(HeaderRequestID))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if seen != "abc-123" {
		t.Fatalf("expected caller id to be reused, got %q", seen)
	}
}

func TestRequestLoggerWritesRequestLine(t *testing.T) {
	var buf strings.Builder
	log := logger.NewWithWriter("production", &buf)

	engine := gin.New()
	engine.Use(RequestID(), RequestLogger(log))
	engine.GET("/boom", func(c *gin.Context) {
		HandleError(c, errors.New("disk full"))
	})

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	out := buf.String()
	if !strings.Contains(out, `"msg":"http_request"`) || !strings.Contains(out, `"msg":"http_error"`) {
		t.Fatalf("expected request and error lines, got %s", out)
	}
	if !strings.Contains(out, "request_id") {
		t.Fatalf("expected request id on log lines, got %s", out)
	}
}

func TestRateLimitRejectsOverBurst(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 1, nil)
	engine := gin.New()
	engine.Use(limiter.RateLimit())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 200 then 429, got %d then %d", first.Code, second.Code)
	}
}

func TestMetricsMiddlewareCountsByRoute(t *testing.T) {
	m := NewMetrics()
	engine := gin.New()
	engine.Use(m.Middleware())
	engine.GET("/api/quotes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/quotes/q1", nil))
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/quotes/q2", nil))

	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/quotes/:id", http.MethodGet, "200"))
	if got != 2 {
		t.Fatalf("expected 2 requests on the route, got %v", got)
	}

	m.QuoteCreated()
	m.DuplicateRejected()
	m.DuplicateRejected()
	if testutil.ToFloat64(m.quotesCreated) != 1 || testutil.ToFloat64(m.duplicateRejected) != 2 {
		t.Fatal("unexpected domain counter values")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.QuoteCreated()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
