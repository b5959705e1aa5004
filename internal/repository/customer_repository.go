package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
)

// CustomerRepository интерфейс для работы с клиентами.
//
// FindAll возвращает клиентов в порядке ID. FindByID и DeleteByID возвращают
// ErrNotFound, если записи нет. Save вставляет клиента с нулевым ID (хранилище
// назначает ID, CreatedAt и UpdatedAt) или обновляет существующего, сохраняя
// ID и CreatedAt и не уменьшая UpdatedAt.
type CustomerRepository interface {
	FindAll(ctx context.Context) ([]domain.Customer, error)
	FindByID(ctx context.Context, id int64) (domain.Customer, error)
	Save(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	DeleteByID(ctx context.Context, id int64) error
}

// InMemoryCustomerRepository реализация репозитория в памяти
type InMemoryCustomerRepository struct {
	customers map[int64]domain.Customer
	nextID    int64
	now       func() time.Time
	mutex     sync.RWMutex
	log       *logger.Logger
}

// NewInMemoryCustomerRepository создает новый репозиторий клиентов в памяти
func NewInMemoryCustomerRepository(log *logger.Logger) *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{
		customers: make(map[int64]domain.Customer),
		now:       time.Now,
		log:       log,
	}
}

// FindAll возвращает всех клиентов
func (r *InMemoryCustomerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	customers := make([]domain.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		customers = append(customers, customer)
	}
	slices.SortFunc(customers, func(a, b domain.Customer) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return customers, nil
}

// FindByID возвращает клиента по ID
func (r *InMemoryCustomerRepository) FindByID(ctx context.Context, id int64) (domain.Customer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	customer, exists := r.customers[id]
	if !exists {
		return domain.Customer{}, ErrNotFound
	}

	return customer, nil
}

// Save создает или обновляет клиента
func (r *InMemoryCustomerRepository) Save(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()

	if customer.IsNew() {
		r.nextID++
		customer.ID = r.nextID
		customer.CreatedAt = now
		customer.UpdatedAt = now
		r.customers[customer.ID] = customer
		r.log.Debug("Inserted customer %d", customer.ID)
		return customer, nil
	}

	existing, exists := r.customers[customer.ID]
	if !exists {
		return domain.Customer{}, ErrNotFound
	}

	customer.CreatedAt = existing.CreatedAt
	customer.UpdatedAt = Later(now, existing.UpdatedAt)
	r.customers[customer.ID] = customer
	r.log.Debug("Updated customer %d", customer.ID)

	return customer, nil
}

// DeleteByID удаляет клиента
func (r *InMemoryCustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.customers[id]; !exists {
		return ErrNotFound
	}

	delete(r.customers, id)

	return nil
}

// Later возвращает более позднюю из двух меток; используется для монотонного UpdatedAt
func Later(a, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}
