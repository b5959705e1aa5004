package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/Customer-microservice/config"
	"github.com/Dhoini/Customer-microservice/internal/api/rest"
	"github.com/Dhoini/Customer-microservice/internal/api/rest/handlers"
	"github.com/Dhoini/Customer-microservice/internal/db"
	"github.com/Dhoini/Customer-microservice/internal/kafka"
	"github.com/Dhoini/Customer-microservice/internal/kafka/producer"
	"github.com/Dhoini/Customer-microservice/internal/metrics"
	"github.com/Dhoini/Customer-microservice/internal/migrations"
	"github.com/Dhoini/Customer-microservice/internal/repository"
	"github.com/Dhoini/Customer-microservice/internal/repository/badgerdb"
	"github.com/Dhoini/Customer-microservice/internal/repository/postgres"
	"github.com/Dhoini/Customer-microservice/internal/repository/sqldb"
	"github.com/Dhoini/Customer-microservice/internal/service"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/IBM/sarama"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const systemMetricsInterval = 15 * time.Second

// App представляет собой контейнер для всех компонентов приложения
type App struct {
	Config  *config.Config
	Service service.CustomerService
	Router  *gin.Engine
	Logger  *logger.Logger

	closers []func() error
}

// New создает и инициализирует новый экземпляр приложения.
// При ошибке уже открытые ресурсы закрываются.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, registry *prometheus.Registry) (*App, error) {
	a := &App{Config: cfg, Logger: log}
	if err := a.init(ctx, registry); err != nil {
		if closeErr := a.Close(); closeErr != nil {
			log.Warnw("Failed to release resources after startup error", "error", closeErr)
		}
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context, registry *prometheus.Registry) error {
	cfg, log := a.Config, a.Logger

	repo, readiness, err := a.openRepository(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if cfg.Redis.Enabled {
		cache, err := repository.NewRedisCustomerCache(ctx, cfg.Redis, log)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, cache.Close)
		repo = repository.NewCachedCustomerRepository(repo, cache, log)
	}

	customerProducer, err := a.openProducer(ctx, cfg.Kafka, log)
	if err != nil {
		return err
	}

	customerMetrics := metrics.NewCustomerMetrics(registry, log)
	systemMetrics := metrics.NewSystemMetrics(registry, log)
	systemMetrics.StartRecording(systemMetricsInterval)
	a.closers = append(a.closers, func() error {
		systemMetrics.Stop()
		return nil
	})

	a.Service = service.NewCustomerService(repo, customerProducer, customerMetrics, log)
	a.Router = rest.SetupRouter(rest.RouterDeps{
		CustomerHandler: handlers.NewCustomerHandler(a.Service, log),
		Readiness:       readiness,
		Registry:        registry,
		HTTPMetrics:     metrics.NewHTTPMetrics(registry),
	}, log)

	return nil
}

// openRepository открывает хранилище, выбранное в конфигурации
func (a *App) openRepository(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (repository.CustomerRepository, handlers.Pinger, error) {
	log.Infow("Opening customer storage", "driver", cfg.Driver)

	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewConnection(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		if err := migrate(cfg, log); err != nil {
			return nil, nil, err
		}
		repo := postgres.NewPostgresCustomerRepository(pool, log)
		return repo, repo, nil

	case config.DriverSQLX:
		client, err := db.NewDBClient(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, client.Close)
		if err := migrate(cfg, log); err != nil {
			return nil, nil, err
		}
		return sqldb.NewCustomerRepository(client.DB(), log), client, nil

	case config.DriverBadger:
		repo, err := badgerdb.NewCustomerRepository(badgerdb.Options{Path: cfg.BadgerPath}, log)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, repo.Close)
		return repo, nil, nil

	case config.DriverMemory:
		return repository.NewInMemoryCustomerRepository(log), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// migrate применяет схему; вызывается после того, как база ответила на ping
func migrate(cfg config.DatabaseConfig, log *logger.Logger) error {
	if !cfg.Migrate || !cfg.UsesPostgres() {
		return nil
	}
	if err := migrations.Up(cfg.GetDSN(), log); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// openProducer создает продюсер событий; при выключенной Kafka события не публикуются
func (a *App) openProducer(ctx context.Context, cfg config.KafkaConfig, log *logger.Logger) (producer.CustomerProducer, error) {
	if !cfg.Enabled {
		log.Info("Kafka is disabled, customer events will not be published")
		return producer.NoopProducer{}, nil
	}

	if cfg.EnsureTopics {
		if err := kafka.EnsureTopics(ctx, cfg.Brokers, kafka.CustomerTopics(), log); err != nil {
			return nil, err
		}
	}

	kafkaConfig := kafka.NewConfig(cfg.Brokers)
	syncProducer, err := sarama.NewSyncProducer(kafkaConfig.Brokers, kafka.NewSaramaConfig(kafkaConfig))
	if err != nil {
		log.Errorw("Failed to create Kafka producer", "error", err)
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	customerProducer := producer.NewKafkaCustomerProducer(syncProducer, log)
	a.closers = append(a.closers, customerProducer.Close)
	return customerProducer, nil
}

// Close освобождает ресурсы в обратном порядке открытия
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
