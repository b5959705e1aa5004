package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dhoini/Customer-microservice/config"
	"github.com/Dhoini/Customer-microservice/internal/api/rest"
	"github.com/Dhoini/Customer-microservice/internal/app"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.INFO).Fatal("Failed to load configuration: %v", err)
	}

	// Инициализация логгера
	logLevel := logger.ParseLevel(cfg.Logging.Level)
	log := logger.New(logLevel)
	if cfg.IsProduction() {
		log = logger.NewProduction(logLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Инициализация Prometheus
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector())

	application, err := app.New(ctx, cfg, log, promRegistry)
	if err != nil {
		log.Fatal("Failed to initialize application: %v", err)
	}

	// Создание и запуск HTTP сервера
	server := rest.NewServer(application.Router, cfg.Server, log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			log.Error("Server error: %v", err)
		}
	}

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := application.Close(); err != nil {
		log.Error("Failed to release resources: %v", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
