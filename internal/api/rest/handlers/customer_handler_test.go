package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/repository"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/swaggest/assertjson"
	"github.com/tidwall/gjson"
)

type mockCustomerService struct {
	mock.Mock
}

func (m *mockCustomerService) GetCustomers(ctx context.Context) ([]domain.CustomerResponse, error) {
	args := m.Called(ctx)
	customers, _ := args.Get(0).([]domain.CustomerResponse)
	return customers, args.Error(1)
}

func (m *mockCustomerService) CreateCustomer(ctx context.Context, req domain.CustomerRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCustomerService) UpdateCustomer(ctx context.Context, id int64, req domain.CustomerRequest) (int64, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCustomerService) DeleteCustomer(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var fixedNow = time.Date(2023, 1, 17, 8, 58, 1, 123000000, time.Local)

func newTestRouter(t *testing.T) (*gin.Engine, *mockCustomerService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := new(mockCustomerService)
	t.Cleanup(func() { svc.AssertExpectations(t) })

	h := NewCustomerHandlerWithClock(svc, func() time.Time { return fixedNow }, logger.NewNop())

	r := gin.New()
	r.GET("/api/v1/customers/", h.GetCustomers)
	r.POST("/api/v1/customers/", h.CreateCustomer)
	r.PUT("/api/v1/customers/:customerId", h.UpdateCustomer)
	r.DELETE("/api/v1/customers/:customerId", h.DeleteCustomer)

	return r, svc
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetCustomers(t *testing.T) {
	r, svc := newTestRouter(t)

	svc.On("GetCustomers", mock.Anything).Return([]domain.CustomerResponse{
		{ID: 1, Name: "Name", Email: "email@test.com", Age: 27},
	}, nil).Once()

	w := serve(r, http.MethodGet, "/api/v1/customers/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assertjson.Equal(t, []byte(`[{"id":1,"name":"Name","email":"email@test.com","age":27}]`), w.Body.Bytes())
}

func TestGetCustomersNotFoundBody(t *testing.T) {
	r, svc := newTestRouter(t)

	svc.On("GetCustomers", mock.Anything).Return(nil, domain.NewCustomersNotFoundError()).Once()

	w := serve(r, http.MethodGet, "/api/v1/customers/?page=2", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t,
		`{"timestamp":"2023-01-17T08:58:01.123","status":"404 NOT_FOUND","message":"customers not found","errors":"customers not found"}`,
		w.Body.String(),
	)
}

func TestCreateCustomerReturnsBareID(t *testing.T) {
	r, svc := newTestRouter(t)

	svc.On("CreateCustomer", mock.Anything, domain.CustomerRequest{Name: "Name", Email: "email@test.com", Age: 27}).
		Return(int64(1), nil).Once()

	w := serve(r, http.MethodPost, "/api/v1/customers/", `{"name":"Name","email":"email@test.com","age":27}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Body.String())
}

func TestCreateCustomerNullFieldsBecomeZeroValues(t *testing.T) {
	r, svc := newTestRouter(t)

	svc.On("CreateCustomer", mock.Anything, domain.CustomerRequest{}).Return(int64(2), nil).Once()

	w := serve(r, http.MethodPost, "/api/v1/customers/", `{"name":null,"email":null,"age":null}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Body.String())
}

func TestCreateCustomerMalformedBody(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, http.MethodPost, "/api/v1/customers/", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, gjson.Get(w.Body.String(), "error").Exists())
}

func TestUpdateCustomer(t *testing.T) {
	r, svc := newTestRouter(t)

	svc.On("UpdateCustomer", mock.Anything, int64(1), domain.CustomerRequest{Name: "Name", Email: "email-mod@test.com", Age: 28}).
		Return(int64(1), nil).Once()

	w := serve(r, http.MethodPut, "/api/v1/customers/1", `{"name":"Name","email":"email-mod@test.com","age":28}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Body.String())
}

func TestUpdateMissingCustomer(t *testing.T) {
	r, svc := newTestRouter(t)

	svc.On("UpdateCustomer", mock.Anything, int64(1), mock.Anything).
		Return(int64(0), domain.NewCustomerNotFoundError(1)).Once()

	w := serve(r, http.MethodPut, "/api/v1/customers/1", `{"name":"Name"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := w.Body.String()
	assert.Equal(t, NotFoundStatus, gjson.Get(body, "status").String())
	assert.Equal(t, "customer with ID 1 not found", gjson.Get(body, "message").String())
	assert.Equal(t, "customer with ID 1 not found", gjson.Get(body, "errors").String())
	assertjson.Equal(t, []byte(`{"timestamp":"<ignore-diff>","status":"404 NOT_FOUND","message":"customer with ID 1 not found","errors":"customer with ID 1 not found"}`), w.Body.Bytes())
}

func TestInvalidCustomerIDIsBadRequest(t *testing.T) {
	r, svc := newTestRouter(t)

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		w := serve(r, method, "/api/v1/customers/abc", `{"name":"Name"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code, method)
		assert.Equal(t, "Invalid customer ID format", gjson.Get(w.Body.String(), "error").String(), method)
	}
	svc.AssertNotCalled(t, "UpdateCustomer", mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "DeleteCustomer", mock.Anything, mock.Anything)
}

func TestDeleteCustomer(t *testing.T) {
	r, svc := newTestRouter(t)

	svc.On("DeleteCustomer", mock.Anything, int64(1)).Return(true, nil).Once()

	w := serve(r, http.MethodDelete, "/api/v1/customers/1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())
}

func TestDeleteMissingCustomer(t *testing.T) {
	r, svc := newTestRouter(t)

	svc.On("DeleteCustomer", mock.Anything, int64(1)).Return(false, domain.NewCustomerNotFoundError(1)).Once()

	w := serve(r, http.MethodDelete, "/api/v1/customers/1", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "customer with ID 1 not found", gjson.Get(w.Body.String(), "message").String())
}

func TestUnexpectedErrorIsInternal(t *testing.T) {
	r, svc := newTestRouter(t)

	svc.On("DeleteCustomer", mock.Anything, int64(1)).Return(false, errors.New("connection refused")).Once()

	w := serve(r, http.MethodDelete, "/api/v1/customers/1", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assertjson.Equal(t, []byte(`{"error":"internal server error"}`), w.Body.Bytes())
}

func TestRejectedDataIsBadRequest(t *testing.T) {
	r, svc := newTestRouter(t)

	svc.On("CreateCustomer", mock.Anything, domain.CustomerRequest{Age: 1 << 40}).
		Return(int64(0), fmt.Errorf("save customer: %w", repository.ErrInvalidData)).Once()

	w := serve(r, http.MethodPost, "/api/v1/customers/", `{"age":1099511627776}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid customer data", gjson.Get(w.Body.String(), "error").String())
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestReadinessCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		pinger Pinger
		want   int
	}{
		{name: "no dependency", pinger: nil, want: http.StatusOK},
		{name: "store reachable", pinger: stubPinger{}, want: http.StatusOK},
		{name: "store down", pinger: stubPinger{err: errors.New("dial tcp: refused")}, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/ready", ReadinessCheck(tt.pinger, logger.NewNop()))

			w := serve(r, http.MethodGet, "/ready", "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", HealthCheck)

	w := serve(r, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", gjson.Get(w.Body.String(), "status").String())
}
