package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), LoggerMiddleware(logger.NewNop()))

	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	header := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, header)
	_, err := uuid.Parse(header)
	assert.NoError(t, err)
	assert.Equal(t, header, seen)
}

func TestRequestIDPropagated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

type observation struct {
	method string
	route  string
	status int
}

type recordingHTTPMetrics struct {
	observed []observation
}

func (r *recordingHTTPMetrics) ObserveRequest(method, route string, status int, _ time.Duration) {
	r.observed = append(r.observed, observation{method: method, route: route, status: status})
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := &recordingHTTPMetrics{}
	r := gin.New()
	r.Use(MetricsMiddleware(m))
	r.DELETE("/api/v1/customers/:customerId", func(c *gin.Context) { c.JSON(http.StatusOK, true) })

	for _, target := range []string{"/api/v1/customers/1", "/api/v1/customers/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, target, nil))
	}

	assert.Equal(t, []observation{
		{method: http.MethodDelete, route: "/api/v1/customers/:customerId", status: http.StatusOK},
		{method: http.MethodDelete, route: "/api/v1/customers/:customerId", status: http.StatusOK},
		{method: http.MethodDelete, route: "unmatched", status: http.StatusNotFound},
	}, m.observed)
}
