package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/kafka/producer"
	"github.com/Dhoini/Customer-microservice/internal/metrics"
	"github.com/Dhoini/Customer-microservice/internal/repository"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
)

// CustomerService интерфейс сервиса для работы с клиентами.
// Отсутствие данных сообщается ошибкой, для которой errors.Is(err, domain.ErrNotFound).
type CustomerService interface {
	GetCustomers(ctx context.Context) ([]domain.CustomerResponse, error)
	CreateCustomer(ctx context.Context, req domain.CustomerRequest) (int64, error)
	UpdateCustomer(ctx context.Context, id int64, req domain.CustomerRequest) (int64, error)
	DeleteCustomer(ctx context.Context, id int64) (bool, error)
}

type customerService struct {
	repo     repository.CustomerRepository
	producer producer.CustomerProducer
	metrics  metrics.CustomerMetrics
	log      *logger.Logger
}

// NewCustomerService создает новый сервис для работы с клиентами
func NewCustomerService(
	repo repository.CustomerRepository,
	producer producer.CustomerProducer,
	metrics metrics.CustomerMetrics,
	log *logger.Logger,
) CustomerService {
	return &customerService{
		repo:     repo,
		producer: producer,
		metrics:  metrics,
		log:      log,
	}
}

func (s *customerService) GetCustomers(ctx context.Context) ([]domain.CustomerResponse, error) {
	s.log.Debug("Getting all customers")

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.metrics.IncOperation(metrics.OpList, metrics.OutcomeError)
		return nil, fmt.Errorf("find customers: %w", err)
	}

	// пустое хранилище считается отсутствием данных
	if len(customers) == 0 {
		s.metrics.IncOperation(metrics.OpList, metrics.OutcomeNotFound)
		return nil, domain.NewCustomersNotFoundError()
	}

	s.metrics.IncOperation(metrics.OpList, metrics.OutcomeSuccess)
	return domain.NewCustomerResponses(customers), nil
}

func (s *customerService) CreateCustomer(ctx context.Context, req domain.CustomerRequest) (int64, error) {
	s.log.Debug("Creating customer with email: %s", req.Email)

	saved, err := s.repo.Save(ctx, domain.NewCustomer(req))
	if err != nil {
		s.metrics.IncOperation(metrics.OpCreate, metrics.OutcomeError)
		return 0, fmt.Errorf("save customer: %w", err)
	}

	s.metrics.IncOperation(metrics.OpCreate, metrics.OutcomeSuccess)
	if err := s.producer.PublishCustomerCreated(context.WithoutCancel(ctx), saved); err != nil {
		s.publishFailed(metrics.OpCreate, saved.ID, err)
	}

	return saved.ID, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id int64, req domain.CustomerRequest) (int64, error) {
	s.log.Debug("Updating customer with ID: %d", id)

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, s.fail(metrics.OpUpdate, id, err, "find customer")
	}

	existing.Apply(req)

	saved, err := s.repo.Save(ctx, existing)
	if err != nil {
		return 0, s.fail(metrics.OpUpdate, id, err, "save customer")
	}

	s.metrics.IncOperation(metrics.OpUpdate, metrics.OutcomeSuccess)
	if err := s.producer.PublishCustomerUpdated(context.WithoutCancel(ctx), saved); err != nil {
		s.publishFailed(metrics.OpUpdate, saved.ID, err)
	}

	return saved.ID, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id int64) (bool, error) {
	s.log.Debug("Deleting customer with ID: %d", id)

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return false, s.fail(metrics.OpDelete, id, err, "delete customer")
	}

	s.metrics.IncOperation(metrics.OpDelete, metrics.OutcomeSuccess)
	if err := s.producer.PublishCustomerDeleted(context.WithoutCancel(ctx), id); err != nil {
		s.publishFailed(metrics.OpDelete, id, err)
	}

	return true, nil
}

// fail переводит отсутствие записи в доменную ошибку, остальные ошибки оборачивает
func (s *customerService) fail(op string, id int64, err error, action string) error {
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.IncOperation(op, metrics.OutcomeNotFound)
		return domain.NewCustomerNotFoundError(id)
	}
	s.metrics.IncOperation(op, metrics.OutcomeError)
	return fmt.Errorf("%s %d: %w", action, id, err)
}

func (s *customerService) publishFailed(op string, id int64, err error) {
	s.metrics.IncEventPublishFailed(op)
	s.log.Warnw("Failed to publish customer event", "operation", op, "customerID", id, "error", err)
}
