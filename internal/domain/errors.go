package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound запись не найдена
var ErrNotFound = errors.New("record not found")

// NotFoundError представляет ошибку "не найдено"
type NotFoundError struct {
	Entity string
	// ID пуст, если не найдено ни одной записи
	ID string
}

// Error реализует интерфейс error
func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// Is проверяет, является ли ошибка ошибкой типа "не найдено"
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError создает новую ошибку "не найдено"
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}

// NewCustomersNotFoundError возвращается, когда в хранилище нет ни одного клиента
func NewCustomersNotFoundError() *NotFoundError {
	return NewNotFoundError("customers", "")
}

// NewCustomerNotFoundError возвращается, когда клиента с указанным ID нет
func NewCustomerNotFoundError(id int64) *NotFoundError {
	return NewNotFoundError("customer", fmt.Sprintf("%d", id))
}
