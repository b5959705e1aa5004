package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/Dhoini/Customer-microservice/config"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.nhat.io/otelsql"
)

var (
	registerOnce sync.Once
	driverName   string
	registerErr  error
)

// instrumentedDriver регистрирует обертку otelsql над драйвером pgx один раз на процесс
func instrumentedDriver(dbName string) (string, error) {
	registerOnce.Do(func() {
		driverName, registerErr = otelsql.Register("pgx",
			otelsql.TraceQueryWithoutArgs(),
			otelsql.TraceRowsAffected(),
			otelsql.WithDatabaseName(dbName),
		)
	})
	return driverName, registerErr
}

// DBClient представляет клиент для работы с базой данных через database/sql.
type DBClient struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewDBClient создает новый экземпляр DBClient.
func NewDBClient(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*DBClient, error) {
	name, err := instrumentedDriver(cfg.Name)
	if err != nil {
		log.Errorw("Failed to register instrumented driver", "error", err)
		return nil, fmt.Errorf("failed to register instrumented driver: %w", err)
	}

	db, err := sqlx.Open(name, cfg.GetDSN())
	if err != nil {
		log.Errorw("Failed to open database", "error", err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))

	if err := WaitForDatabase(ctx, db.PingContext, ConnectMaxElapsed, log); err != nil {
		_ = db.Close()
		log.Errorw("Failed to ping database", "error", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := otelsql.RecordStats(db.DB, otelsql.WithInstanceName(cfg.Name)); err != nil {
		log.Warnw("Failed to record connection pool stats", "error", err)
	}

	log.Infow("Database connection established", "driver", name)
	return &DBClient{db: db, log: log}, nil
}

// NewDBClientFromDB оборачивает уже открытое соединение (используется в тестах)
func NewDBClientFromDB(db *sqlx.DB, log *logger.Logger) *DBClient {
	return &DBClient{db: db, log: log}
}

// DB возвращает соединение sqlx
func (dc *DBClient) DB() *sqlx.DB {
	return dc.db
}

// Ping проверяет доступность базы данных
func (dc *DBClient) Ping(ctx context.Context) error {
	return dc.db.PingContext(ctx)
}

// Close закрывает соединение с базой данных.
func (dc *DBClient) Close() error {
	err := dc.db.Close()
	if err != nil {
		dc.log.Errorw("Failed to close database connection", "error", err)
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
