// Package badgerdb хранит клиентов во встроенной базе BadgerDB.
package badgerdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/repository"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/dgraph-io/badger/v4"
)

var (
	customerPrefix = []byte("customer:")
	sequenceKey    = []byte("seq:customer")
)

const (
	sequenceBandwidth  = 100
	maxConflictRetries = 3
)

// Options настройки хранилища BadgerDB
type Options struct {
	// Path каталог базы. Пустой путь включает режим в памяти.
	Path string
}

// CustomerRepository реализация репозитория клиентов на BadgerDB
type CustomerRepository struct {
	db  *badger.DB
	seq *badger.Sequence
	now func() time.Time
	log *logger.Logger
}

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

// NewCustomerRepository открывает базу и создает репозиторий клиентов
func NewCustomerRepository(opts Options, log *logger.Logger) (*CustomerRepository, error) {
	badgerOpts := badger.DefaultOptions(opts.Path).WithLogger(newBadgerLogger(log))
	if opts.Path == "" {
		badgerOpts = badgerOpts.WithInMemory(true)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	seq, err := db.GetSequence(sequenceKey, sequenceBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("get customer sequence: %w", err)
	}

	log.Infow("Badger storage opened", "path", opts.Path, "inMemory", opts.Path == "")

	return &CustomerRepository{
		db:  db,
		seq: seq,
		now: time.Now,
		log: log,
	}, nil
}

// Close освобождает последовательность и закрывает базу
func (r *CustomerRepository) Close() error {
	if err := r.seq.Release(); err != nil {
		r.log.Warnw("Failed to release customer sequence", "error", err)
	}
	return r.db.Close()
}

// FindAll возвращает всех клиентов в порядке ID
func (r *CustomerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	customers := make([]domain.Customer, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = customerPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// ключи в big-endian, поэтому порядок итерации совпадает с порядком ID
		for it.Rewind(); it.Valid(); it.Next() {
			customer, err := decodeItem(it.Item())
			if err != nil {
				return err
			}
			customers = append(customers, customer)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, nil
}

// FindByID возвращает клиента по ID
func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (domain.Customer, error) {
	var customer domain.Customer

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(customerKey(id))
		if err != nil {
			return err
		}
		customer, err = decodeItem(item)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.Customer{}, repository.ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// Save создает нового клиента или обновляет существующего
func (r *CustomerRepository) Save(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if customer.IsNew() {
		return r.insert(customer)
	}

	var (
		saved domain.Customer
		err   error
	)
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		saved, err = r.update(customer)
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
		r.log.Debug("Retrying conflicting update of customer %d", customer.ID)
	}
	return saved, err
}

func (r *CustomerRepository) insert(customer domain.Customer) (domain.Customer, error) {
	next, err := r.seq.Next()
	if err != nil {
		return domain.Customer{}, fmt.Errorf("failed to allocate customer id: %w", err)
	}

	// Sequence начинается с нуля, а нулевой ID означает новую запись
	customer.ID = int64(next) + 1
	now := r.now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	if err := r.db.Update(func(txn *badger.Txn) error {
		return putCustomer(txn, customer)
	}); err != nil {
		return domain.Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}

	r.log.Debug("Inserted customer %d", customer.ID)
	return customer, nil
}

func (r *CustomerRepository) update(customer domain.Customer) (domain.Customer, error) {
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(customerKey(customer.ID))
		if err != nil {
			return err
		}
		existing, err := decodeItem(item)
		if err != nil {
			return err
		}

		customer.CreatedAt = existing.CreatedAt
		customer.UpdatedAt = repository.Later(r.now(), existing.UpdatedAt)
		return putCustomer(txn, customer)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.Customer{}, repository.ErrNotFound
		}
		if errors.Is(err, badger.ErrConflict) {
			return domain.Customer{}, err
		}
		return domain.Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}

	r.log.Debug("Updated customer %d", customer.ID)
	return customer, nil
}

// DeleteByID удаляет клиента
func (r *CustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key := customerKey(id)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	return nil
}

func customerKey(id int64) []byte {
	key := make([]byte, len(customerPrefix)+8)
	copy(key, customerPrefix)
	binary.BigEndian.PutUint64(key[len(customerPrefix):], uint64(id))
	return key
}

func putCustomer(txn *badger.Txn, customer domain.Customer) error {
	value, err := json.Marshal(customer)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalidData, err)
	}
	return txn.Set(customerKey(customer.ID), value)
}

func decodeItem(item *badger.Item) (domain.Customer, error) {
	var customer domain.Customer
	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &customer)
	})
	if err != nil {
		return domain.Customer{}, fmt.Errorf("%w: %v", repository.ErrInvalidData, err)
	}
	return customer, nil
}
