package repository

import (
	"context"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
)

// CachedCustomerRepository реализует CustomerRepository с кешированием.
// Ошибки кеша только логируются, источником истины остается repo.
type CachedCustomerRepository struct {
	repo  CustomerRepository
	cache CustomerCache
	log   *logger.Logger
}

// NewCachedCustomerRepository создает новый репозиторий с кешированием
func NewCachedCustomerRepository(repo CustomerRepository, cache CustomerCache, log *logger.Logger) *CachedCustomerRepository {
	return &CachedCustomerRepository{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// FindAll возвращает список клиентов (сначала из кеша, потом из БД)
func (r *CachedCustomerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	cached, found, err := r.cache.GetCustomerList(ctx)
	if err != nil {
		r.log.Warnw("Error getting customer list from cache", "error", err)
	}
	if found {
		return cached, nil
	}

	// версию читаем до БД: запись, случившаяся после чтения, не попадет в кеш
	version, versionErr := r.cache.ListVersion(ctx)
	if versionErr != nil {
		r.log.Warnw("Error getting customer list version from cache", "error", versionErr)
	}

	customers, err := r.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// пустой список не кешируем: следующая вставка обязана стать видимой
	if versionErr == nil && len(customers) > 0 {
		if _, err := r.cache.SetCustomerList(ctx, version, customers); err != nil {
			r.log.Warnw("Failed to cache customer list", "error", err)
		}
	}

	return customers, nil
}

// FindByID получает клиента по ID (сначала из кеша, потом из БД)
func (r *CachedCustomerRepository) FindByID(ctx context.Context, id int64) (domain.Customer, error) {
	cached, found, err := r.cache.GetCustomer(ctx, id)
	if err != nil {
		r.log.Warnw("Error getting customer from cache", "error", err, "customerID", id)
	}
	if found {
		return cached, nil
	}

	customer, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	if err := r.cache.SetCustomer(ctx, customer); err != nil {
		r.log.Warnw("Failed to cache customer after fetching", "error", err, "customerID", id)
	}

	return customer, nil
}

// Save сохраняет клиента в БД и обновляет кеш
func (r *CachedCustomerRepository) Save(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	saved, err := r.repo.Save(ctx, customer)
	if err != nil {
		return domain.Customer{}, err
	}

	if err := r.cache.SetCustomer(ctx, saved); err != nil {
		r.log.Warnw("Failed to cache customer after save", "error", err, "customerID", saved.ID)
	}
	if err := r.cache.InvalidateCustomerList(ctx); err != nil {
		r.log.Warnw("Failed to invalidate customer list cache", "error", err)
	}

	return saved, nil
}

// DeleteByID удаляет клиента из БД и из кеша
func (r *CachedCustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	if err := r.cache.DeleteCustomer(ctx, id); err != nil {
		r.log.Warnw("Failed to delete customer from cache", "error", err, "customerID", id)
	}
	if err := r.cache.InvalidateCustomerList(ctx); err != nil {
		r.log.Warnw("Failed to invalidate customer list cache", "error", err)
	}

	return nil
}
