package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("record not found")

	// ErrInvalidData неверные данные
	ErrInvalidData = errors.New("invalid data")
)

// MapPgError переводит ошибки данных PostgreSQL (класс 22, например NUL-байт в тексте)
// в ErrInvalidData; остальные ошибки возвращаются без изменений
func MapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "22") {
		return fmt.Errorf("%w: %s", ErrInvalidData, pgErr.Message)
	}
	return err
}
