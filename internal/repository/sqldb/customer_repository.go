// Package sqldb реализует репозиторий клиентов поверх database/sql и sqlx.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/repository"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/jmoiron/sqlx"
)

type customerRepository struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewCustomerRepository создает репозиторий клиентов на sqlx
func NewCustomerRepository(db *sqlx.DB, log *logger.Logger) repository.CustomerRepository {
	return &customerRepository{
		db:  db,
		log: log,
	}
}

func (r *customerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	customers := make([]domain.Customer, 0)

	query := `
		SELECT id, name, email, age, created_at, updated_at
		FROM customers
		ORDER BY id
	`

	if err := r.db.SelectContext(ctx, &customers, query); err != nil {
		r.log.Errorw("Failed to list customers", "error", err)
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) FindByID(ctx context.Context, id int64) (domain.Customer, error) {
	var customer domain.Customer

	query := `
		SELECT id, name, email, age, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &customer, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, repository.ErrNotFound
		}
		r.log.Errorw("Failed to get customer by id", "error", err, "customerID", id)
		return domain.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

func (r *customerRepository) Save(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if customer.IsNew() {
		return r.insert(ctx, customer)
	}
	return r.update(ctx, customer)
}

func (r *customerRepository) insert(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	query := `
		INSERT INTO customers (name, email, age)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, customer.Name, customer.Email, customer.Age).
		Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		r.log.Errorw("Failed to create customer", "error", err)
		return domain.Customer{}, fmt.Errorf("failed to create customer: %w", repository.MapPgError(err))
	}

	return customer, nil
}

func (r *customerRepository) update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	query := `
		UPDATE customers
		SET name = $1, email = $2, age = $3, updated_at = GREATEST(now(), updated_at)
		WHERE id = $4
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, customer.Name, customer.Email, customer.Age, customer.ID).
		Scan(&customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, repository.ErrNotFound
		}
		r.log.Errorw("Failed to update customer", "error", err, "customerID", customer.ID)
		return domain.Customer{}, fmt.Errorf("failed to update customer: %w", repository.MapPgError(err))
	}

	return customer, nil
}

func (r *customerRepository) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		r.log.Errorw("Failed to delete customer", "error", err, "customerID", id)
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
