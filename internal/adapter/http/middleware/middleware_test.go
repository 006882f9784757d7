package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(middlewares ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middlewares...)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello, World!")
	})

	router.POST("/todos", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	return router
}

func perform(router *gin.Engine, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestRateLimitMiddleware_BlocksAfterBurst(t *testing.T) {
	RegisterTestingT(t)

	limiter := NewRateLimiter(map[string]config.RateLimitConfig{
		"POST /todos": {Requests: 2, Window: time.Minute},
	}, nil, telemetry.NewAppMetrics(prometheus.NewRegistry()))

	router := newTestRouter(limiter.RateLimitMiddleware())

	first := perform(router, http.MethodPost, "/todos", nil)
	Expect(first.Code).To(Equal(http.StatusCreated))
	Expect(first.Header().Get("X-RateLimit-Limit")).To(Equal("2"))
	Expect(first.Header().Get("X-RateLimit-Remaining")).To(Equal("1"))

	second := perform(router, http.MethodPost, "/todos", nil)
	Expect(second.Code).To(Equal(http.StatusCreated))
	Expect(second.Header().Get("X-RateLimit-Remaining")).To(Equal("0"))

	third := perform(router, http.MethodPost, "/todos", nil)
	Expect(third.Code).To(Equal(http.StatusTooManyRequests))
	Expect(third.Header().Get("Retry-After")).NotTo(BeEmpty())
	Expect(third.Body.String()).To(ContainSubstring("RATE_LIMIT_EXCEEDED"))

	// Other routes fall back to the default bucket.
	Expect(perform(router, http.MethodGet, "/", nil).Code).To(Equal(http.StatusOK))
}

func TestRateLimitMiddleware_DefaultConfigLetsDemoUsersThrough(t *testing.T) {
	RegisterTestingT(t)

	limiter := NewRateLimiter(config.GetDefaultConfig().RateLimitConfigs, nil,
		telemetry.NewAppMetrics(prometheus.NewRegistry()))

	router := gin.New()
	router.Use(limiter.RateLimitMiddleware())
	router.POST("/users", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 50; i++ {
		Expect(perform(router, http.MethodPost, "/users", nil).Code).To(Equal(http.StatusCreated))
	}
}

func TestRateLimitMiddleware_SeparateClients(t *testing.T) {
	limiter := NewRateLimiter(map[string]config.RateLimitConfig{
		"POST /todos": {Requests: 1, Window: time.Minute},
	}, nil, nil)

	router := newTestRouter(limiter.RateLimitMiddleware())

	req := httptest.NewRequest(http.MethodPost, "/todos", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/todos", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/todos", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	RegisterTestingT(t)

	var seen string

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) {
		seen = RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := perform(router, http.MethodGet, "/", nil)
	Expect(w.Header().Get(RequestIDHeader)).To(HaveLen(36))
	Expect(seen).To(Equal(w.Header().Get(RequestIDHeader)))

	w = perform(router, http.MethodGet, "/", map[string]string{RequestIDHeader: "abc-123"})
	Expect(w.Header().Get(RequestIDHeader)).To(Equal("abc-123"))
	Expect(seen).To(Equal("abc-123"))
}

func TestHTTPSMiddleware(t *testing.T) {
	enforcer := NewHTTPSEnforcer(true, nil)
	router := newTestRouter(enforcer.HTTPSMiddleware())

	req := httptest.NewRequest(http.MethodGet, "http://api.example.com/?q=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://api.example.com/?q=1", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "http://api.example.com/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "http://localhost:3000/", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	disabled := newTestRouter(NewHTTPSEnforcer(false, nil).HTTPSMiddleware())
	req = httptest.NewRequest(http.MethodGet, "http://api.example.com/", nil)
	w = httptest.NewRecorder()
	disabled.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsMiddleware(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	router := newTestRouter(MetricsMiddleware(telemetry.NewAppMetrics(registry)))

	perform(router, http.MethodGet, "/", nil)
	perform(router, http.MethodGet, "/missing", nil)

	count, err := testutil.GatherAndCount(registry, "http_requests_total")

	Expect(err).To(BeNil())
	Expect(count).To(Equal(2))
}

func TestLoggingMiddleware(t *testing.T) {
	router := newTestRouter(LoggingMiddleware(config.NewNopLogger()))

	w := perform(router, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello, World!", w.Body.String())
}
