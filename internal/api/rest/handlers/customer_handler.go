package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/repository"
	"github.com/Dhoini/Customer-microservice/internal/service"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/gin-gonic/gin"
)

// TimestampLayout локальное время без зоны, как в теле ответа 404
const TimestampLayout = "2006-01-02T15:04:05.999999999"

// NotFoundStatus значение поля status в теле ответа 404
const NotFoundStatus = "404 NOT_FOUND"

// ErrorResponse тело ответа 404. Порядок полей фиксирован.
type ErrorResponse struct {
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Errors    string `json:"errors"`
}

// CustomerHandler обработчик для клиентов
type CustomerHandler struct {
	service service.CustomerService
	now     func() time.Time
	log     *logger.Logger
}

// NewCustomerHandler создает новый обработчик клиентов
func NewCustomerHandler(svc service.CustomerService, log *logger.Logger) *CustomerHandler {
	return NewCustomerHandlerWithClock(svc, time.Now, log)
}

// NewCustomerHandlerWithClock создает обработчик с заданными часами для отметок времени ошибок
func NewCustomerHandlerWithClock(svc service.CustomerService, now func() time.Time, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: svc,
		now:     now,
		log:     log,
	}
}

// GetCustomers возвращает список всех клиентов
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	h.log.Info("GET /customers")

	customers, err := h.service.GetCustomers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, customers)
}

// CreateCustomer создает нового клиента и возвращает его ID
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	h.log.Info("POST /customers")

	var req domain.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid request body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	id, err := h.service.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, id)
}

// UpdateCustomer обновляет клиента и возвращает его ID
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}
	h.log.Info("PUT /customers/%d", id)

	var req domain.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid request body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updatedID, err := h.service.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, updatedID)
}

// DeleteCustomer удаляет клиента
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}
	h.log.Info("DELETE /customers/%d", id)

	deleted, err := h.service.DeleteCustomer(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, deleted)
}

// customerID разбирает параметр пути; при ошибке ответ 400 уже записан
func (h *CustomerHandler) customerID(c *gin.Context) (int64, bool) {
	raw := c.Param("customerId")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.log.Warn("Invalid customer ID format: %s", raw)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID format"})
		return 0, false
	}

	return id, true
}

func (h *CustomerHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		h.log.Warnw("Resource not found",
			"request", "uri="+c.Request.URL.Path,
			"params", c.Request.URL.Query(),
			"error", err.Error(),
		)
		c.JSON(http.StatusNotFound, ErrorResponse{
			Timestamp: h.now().Local().Format(TimestampLayout),
			Status:    NotFoundStatus,
			Message:   err.Error(),
			Errors:    err.Error(),
		})
		return
	}

	if errors.Is(err, repository.ErrInvalidData) {
		h.log.Warnw("Storage rejected customer data", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer data"})
		return
	}

	h.log.Errorw("Request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
