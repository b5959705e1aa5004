package middleware

import (
	"time"

	"github.com/Dhoini/Customer-microservice/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware записывает длительность и статус каждого запроса
func MetricsMiddleware(m metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		// шаблон маршрута, чтобы ID не раздували число серий
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(startTime))
	}
}
