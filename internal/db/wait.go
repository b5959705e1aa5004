package db

import (
	"context"
	"time"

	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/cenkalti/backoff/v4"
)

// ConnectMaxElapsed время ожидания базы при старте сервиса
const ConnectMaxElapsed = 30 * time.Second

// WaitForDatabase повторяет ping с экспоненциальной задержкой, пока база не ответит
func WaitForDatabase(ctx context.Context, ping func(context.Context) error, maxElapsed time.Duration, log *logger.Logger) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = maxElapsed

	return backoff.RetryNotify(
		func() error { return ping(ctx) },
		backoff.WithContext(bo, ctx),
		func(err error, next time.Duration) {
			log.Warnw("Database is not ready, retrying", "error", err, "retryIn", next.String())
		},
	)
}
