package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dhoini/Customer-microservice/internal/api/rest/handlers"
	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/kafka/producer"
	"github.com/Dhoini/Customer-microservice/internal/metrics"
	"github.com/Dhoini/Customer-microservice/internal/repository"
	"github.com/Dhoini/Customer-microservice/internal/service"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggest/assertjson"
	"github.com/tidwall/gjson"
)

type testApp struct {
	router *gin.Engine
	repo   *repository.InMemoryCustomerRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	registry := prometheus.NewRegistry()
	repo := repository.NewInMemoryCustomerRepository(log)
	svc := service.NewCustomerService(repo, producer.NoopProducer{}, metrics.NewCustomerMetrics(registry, log), log)

	router := SetupRouter(RouterDeps{
		CustomerHandler: handlers.NewCustomerHandler(svc, log),
		Registry:        registry,
		HTTPMetrics:     metrics.NewHTTPMetrics(registry),
	}, log)

	return &testApp{router: router, repo: repo}
}

func (a *testApp) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) seed(t *testing.T, customer domain.Customer) domain.Customer {
	t.Helper()
	saved, err := a.repo.Save(context.Background(), customer)
	require.NoError(t, err)
	return saved
}

func TestListStoredCustomers(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, domain.Customer{Name: "Name", Email: "email@test.com", Age: 27})

	w := app.do(http.MethodGet, "/api/v1/customers/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assertjson.Equal(t, []byte(`[{"id":1,"name":"Name","email":"email@test.com","age":27}]`), w.Body.Bytes())
}

func TestListWithoutTrailingSlash(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, domain.Customer{Name: "Name"})

	w := app.do(http.MethodGet, "/api/v1/customers", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "#").Int())
}

func TestListEmptyStoreIsNotFound(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/api/v1/customers/", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "404 NOT_FOUND", gjson.Get(w.Body.String(), "status").String())
	assert.Equal(t, "customers not found", gjson.Get(w.Body.String(), "message").String())
}

func TestCreateThenList(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/api/v1/customers/", `{"name":"Name","email":"email@test.com","age":27}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Body.String())

	w = app.do(http.MethodGet, "/api/v1/customers/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "email@test.com", gjson.Get(w.Body.String(), "#(id==1).email").String())
}

func TestCreatedCustomerCanBeUpdatedImmediately(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/api/v1/customers", `{"name":"Name"}`)
	require.Equal(t, http.StatusOK, w.Code)
	id := w.Body.String()

	w = app.do(http.MethodPut, "/api/v1/customers/"+id, `{"name":"Other"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, w.Body.String())
}

func TestUpdateExistingCustomer(t *testing.T) {
	app := newTestApp(t)
	original := app.seed(t, domain.Customer{Name: "Name", Email: "email@test.com", Age: 27})

	w := app.do(http.MethodPut, "/api/v1/customers/1", `{"name":"Name","email":"email-mod@test.com","age":28}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Body.String())

	stored, err := app.repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ID)
	assert.Equal(t, "email-mod@test.com", stored.Email)
	assert.Equal(t, 28, stored.Age)
	assert.True(t, stored.CreatedAt.Equal(original.CreatedAt))
	assert.False(t, stored.UpdatedAt.Before(original.UpdatedAt))
}

func TestUpdateMissingCustomerCreatesNothing(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPut, "/api/v1/customers/1", `{"name":"Name","email":"email-mod@test.com","age":28}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	customers, err := app.repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestDeleteTwice(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, domain.Customer{Name: "Name"})

	w := app.do(http.MethodDelete, "/api/v1/customers/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())

	w = app.do(http.MethodDelete, "/api/v1/customers/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "customer with ID 1 not found", gjson.Get(w.Body.String(), "errors").String())

	w = app.do(http.MethodPut, "/api/v1/customers/1", `{"name":"Name"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/ready", "").Code)

	app.do(http.MethodGet, "/api/v1/customers/", "")
	w := app.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `customer_operations_total{operation="list",outcome="not_found"} 1`)
	assert.Contains(t, w.Body.String(), "http_request_duration_seconds")
}
