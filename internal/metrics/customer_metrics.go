package metrics

import (
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Операции над клиентами
const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Исходы операций
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// CustomerMetrics интерфейс для метрик клиентов
type CustomerMetrics interface {
	IncOperation(operation, outcome string)
	IncEventPublishFailed(operation string)
}

type customerMetrics struct {
	log                *logger.Logger
	operations         *prometheus.CounterVec
	eventPublishFailed *prometheus.CounterVec
}

// NewCustomerMetrics создает новые метрики клиентов
func NewCustomerMetrics(registry *prometheus.Registry, log *logger.Logger) CustomerMetrics {
	operations := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_operations_total",
			Help: "The total number of customer operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	eventPublishFailed := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_event_publish_failures_total",
			Help: "The total number of customer events that could not be published",
		},
		[]string{"operation"},
	)

	return &customerMetrics{
		log:                log,
		operations:         operations,
		eventPublishFailed: eventPublishFailed,
	}
}

// IncOperation увеличивает счетчик операций
func (m *customerMetrics) IncOperation(operation, outcome string) {
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// IncEventPublishFailed увеличивает счетчик неотправленных событий
func (m *customerMetrics) IncEventPublishFailed(operation string) {
	m.eventPublishFailed.WithLabelValues(operation).Inc()
}

// NopCustomerMetrics ничего не записывает
type NopCustomerMetrics struct{}

// IncOperation ничего не делает
func (NopCustomerMetrics) IncOperation(string, string) {}

// IncEventPublishFailed ничего не делает
func (NopCustomerMetrics) IncEventPublishFailed(string) {}
