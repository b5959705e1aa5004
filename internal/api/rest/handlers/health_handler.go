package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck обработчик для проверки работоспособности сервиса
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "OK",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// ReadinessCheck возвращает обработчик, отвечающий 503, пока хранилище недоступно.
// Nil pinger означает хранилище без внешних зависимостей.
func ReadinessCheck(pinger Pinger, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := pinger.Ping(ctx); err != nil {
				log.Warnw("Readiness check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "UNAVAILABLE"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	}
}
