package rest

import (
	"github.com/Dhoini/Customer-microservice/internal/api/rest/handlers"
	"github.com/Dhoini/Customer-microservice/internal/api/rest/middleware"
	"github.com/Dhoini/Customer-microservice/internal/metrics"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps зависимости маршрутизатора
type RouterDeps struct {
	CustomerHandler *handlers.CustomerHandler
	// Readiness проверяет хранилище для /ready; nil означает всегда готов
	Readiness   handlers.Pinger
	Registry    *prometheus.Registry
	HTTPMetrics metrics.HTTPMetrics
}

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(deps RouterDeps, log *logger.Logger) *gin.Engine {
	r := gin.New()

	// Коллекция доступна и со слешем, и без него
	r.RedirectTrailingSlash = false

	// Подключение middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggerMiddleware(log))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.HTTPMetrics))
	}
	r.Use(gin.Recovery())

	// Endpoint для проверки работоспособности сервиса
	r.GET("/health", handlers.HealthCheck)
	r.GET("/ready", handlers.ReadinessCheck(deps.Readiness, log))

	// Prometheus метрики
	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	customerHandler := deps.CustomerHandler
	v1 := r.Group("/api/v1")
	{
		// Клиенты
		customers := v1.Group("/customers")
		{
			customers.GET("", customerHandler.GetCustomers)
			customers.GET("/", customerHandler.GetCustomers)
			customers.POST("", customerHandler.CreateCustomer)
			customers.POST("/", customerHandler.CreateCustomer)
			customers.PUT("/:customerId", customerHandler.UpdateCustomer)
			customers.DELETE("/:customerId", customerHandler.DeleteCustomer)
		}
	}

	return r
}
