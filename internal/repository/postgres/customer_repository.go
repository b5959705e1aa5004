package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/repository"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	selectCustomers = `
		SELECT id, name, email, age, created_at, updated_at
		FROM customers
		ORDER BY id
	`
	selectCustomerByID = `
		SELECT id, name, email, age, created_at, updated_at
		FROM customers
		WHERE id = $1
	`
	insertCustomer = `
		INSERT INTO customers (name, email, age)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	// updated_at никогда не уменьшается, даже если часы сервера БД отстали
	updateCustomer = `
		UPDATE customers
		SET name = $1, email = $2, age = $3, updated_at = GREATEST(now(), updated_at)
		WHERE id = $4
		RETURNING created_at, updated_at
	`
	deleteCustomer = `DELETE FROM customers WHERE id = $1`
)

// PostgresCustomerRepository реализация репозитория клиентов через PostgreSQL
type PostgresCustomerRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

var _ repository.CustomerRepository = (*PostgresCustomerRepository)(nil)

// NewPostgresCustomerRepository создает новый репозиторий клиентов через PostgreSQL
func NewPostgresCustomerRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		db:  db,
		log: log,
	}
}

// FindAll возвращает всех клиентов
func (r *PostgresCustomerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.Query(ctx, selectCustomers)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var customer domain.Customer
		err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Email,
			&customer.Age,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}

		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

// FindByID возвращает клиента по ID
func (r *PostgresCustomerRepository) FindByID(ctx context.Context, id int64) (domain.Customer, error) {
	var customer domain.Customer

	err := r.db.QueryRow(ctx, selectCustomerByID, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Age,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, repository.ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// Save создает нового клиента или обновляет существующего
func (r *PostgresCustomerRepository) Save(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if customer.IsNew() {
		err := r.db.QueryRow(ctx, insertCustomer, customer.Name, customer.Email, customer.Age).
			Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
		if err != nil {
			return domain.Customer{}, fmt.Errorf("failed to create customer: %w", repository.MapPgError(err))
		}
		r.log.Debug("Inserted customer %d", customer.ID)
		return customer, nil
	}

	err := r.db.QueryRow(ctx, updateCustomer, customer.Name, customer.Email, customer.Age, customer.ID).
		Scan(&customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, repository.ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to update customer: %w", repository.MapPgError(err))
	}
	r.log.Debug("Updated customer %d", customer.ID)

	return customer, nil
}

// DeleteByID удаляет клиента
func (r *PostgresCustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, deleteCustomer, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Ping проверяет доступность базы данных
func (r *PostgresCustomerRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
