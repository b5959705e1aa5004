package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Dhoini/Customer-microservice/config"
	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	// Ключи кеша
	customerKeyPrefix = "customer:"
	customerListKey   = "customers:all"
	// версия списка растет при каждой инвалидации
	customerListVersionKey = "customers:version"

	// TTL для кэша
	defaultCacheTTL = 15 * time.Minute
)

// CustomerCache кеш клиентов. Промах возвращает found == false без ошибки.
//
// Список кешируется с версией: SetCustomerList записывает его, только если
// версия не изменилась с момента ListVersion, а InvalidateCustomerList
// увеличивает версию.
type CustomerCache interface {
	GetCustomer(ctx context.Context, id int64) (customer domain.Customer, found bool, err error)
	SetCustomer(ctx context.Context, customer domain.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
	GetCustomerList(ctx context.Context) (customers []domain.Customer, found bool, err error)
	ListVersion(ctx context.Context) (int64, error)
	SetCustomerList(ctx context.Context, version int64, customers []domain.Customer) (stored bool, err error)
	InvalidateCustomerList(ctx context.Context) error
}

// setListIfVersion записывает список, только если версия совпадает с ожидаемой
var setListIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisCustomerCache реализует кеширование клиентов с использованием Redis
type RedisCustomerCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

var _ CustomerCache = (*RedisCustomerCache)(nil)

// NewRedisCustomerCache создает новый экземпляр кеша и проверяет соединение
func NewRedisCustomerCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisCustomerCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Проверяем соединение с Redis
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Errorw("Failed to connect to Redis", "error", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infow("Connected to Redis successfully", "addr", cfg.Addr)
	return NewRedisCustomerCacheFromClient(client, cfg.TTL, log), nil
}

// NewRedisCustomerCacheFromClient оборачивает готовый клиент Redis
func NewRedisCustomerCacheFromClient(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisCustomerCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCustomerCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Ping проверяет доступность Redis
func (r *RedisCustomerCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close закрывает соединение с Redis
func (r *RedisCustomerCache) Close() error {
	return r.client.Close()
}

func customerKey(id int64) string {
	return customerKeyPrefix + strconv.FormatInt(id, 10)
}

// GetCustomer получает клиента из кеша
func (r *RedisCustomerCache) GetCustomer(ctx context.Context, id int64) (domain.Customer, bool, error) {
	var customer domain.Customer
	found, err := r.get(ctx, customerKey(id), &customer)
	return customer, found, err
}

// SetCustomer кеширует клиента
func (r *RedisCustomerCache) SetCustomer(ctx context.Context, customer domain.Customer) error {
	return r.set(ctx, customerKey(customer.ID), customer)
}

// DeleteCustomer удаляет клиента из кеша
func (r *RedisCustomerCache) DeleteCustomer(ctx context.Context, id int64) error {
	return r.del(ctx, customerKey(id))
}

// GetCustomerList получает список клиентов из кеша
func (r *RedisCustomerCache) GetCustomerList(ctx context.Context) ([]domain.Customer, bool, error) {
	var customers []domain.Customer
	found, err := r.get(ctx, customerListKey, &customers)
	return customers, found, err
}

// ListVersion возвращает текущую версию списка клиентов
func (r *RedisCustomerCache) ListVersion(ctx context.Context) (int64, error) {
	version, err := r.client.Get(ctx, customerListVersionKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get customer list version: %w", err)
	}
	return version, nil
}

// SetCustomerList кеширует список клиентов, если его версия не изменилась
func (r *RedisCustomerCache) SetCustomerList(ctx context.Context, version int64, customers []domain.Customer) (bool, error) {
	data, err := json.Marshal(customers)
	if err != nil {
		return false, fmt.Errorf("failed to marshal %s: %w", customerListKey, err)
	}

	stored, err := setListIfVersion.Run(ctx, r.client,
		[]string{customerListVersionKey, customerListKey},
		strconv.FormatInt(version, 10), data, r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to cache %s: %w", customerListKey, err)
	}
	if stored == 0 {
		r.log.Debugw("Customer list changed while loading, not cached", "version", version)
	}
	return stored == 1, nil
}

// InvalidateCustomerList удаляет кеш списка клиентов и увеличивает его версию
func (r *RedisCustomerCache) InvalidateCustomerList(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, customerListVersionKey)
		pipe.Del(ctx, customerListKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", customerListKey, err)
	}
	return nil
}

func (r *RedisCustomerCache) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.log.Debugw("Cache miss", "key", key)
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached %s: %w", key, err)
	}

	r.log.Debugw("Cache hit", "key", key)
	return true, nil
}

func (r *RedisCustomerCache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	return nil
}

func (r *RedisCustomerCache) del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from cache: %w", key, err)
	}
	return nil
}
