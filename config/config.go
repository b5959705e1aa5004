package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Поддерживаемые драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverSQLX     = "sqlx"
	DriverBadger   = "badger"
	DriverMemory   = "memory"
)

// Config структура конфигурации приложения
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AppConfig общие параметры приложения
type AppConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	Env  string `mapstructure:"env" validate:"oneof=development production test"`
}

// ServerConfig конфигурация HTTP сервера
type ServerConfig struct {
	Port            string `mapstructure:"port" validate:"required,numeric"`
	ReadTimeout     int    `mapstructure:"read_timeout" validate:"min=1"`
	WriteTimeout    int    `mapstructure:"write_timeout" validate:"min=1"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"min=1"`
}

// DatabaseConfig конфигурация хранилища
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver" validate:"oneof=postgres sqlx badger memory"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns" validate:"min=1"`
	MinConns int32  `mapstructure:"min_conns" validate:"min=0"`
	Migrate  bool   `mapstructure:"migrate"`
	// BadgerPath каталог для встроенного хранилища; пустая строка означает in-memory
	BadgerPath string `mapstructure:"badger_path"`
}

// RedisConfig конфигурация кеша
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"min=0"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// KafkaConfig конфигурация публикации событий
type KafkaConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Brokers      []string `mapstructure:"brokers" validate:"required_if=Enabled true"`
	EnsureTopics bool     `mapstructure:"ensure_topics"`
}

// LoggingConfig конфигурация логгера
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error fatal"`
}

// UsesPostgres сообщает, нужен ли драйверу PostgreSQL
func (c *DatabaseConfig) UsesPostgres() bool {
	return c.Driver == DriverPostgres || c.Driver == DriverSQLX
}

// GetDSN возвращает строку подключения к базе данных в формате URL
func (c *DatabaseConfig) GetDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Name,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// IsProduction сообщает, запущено ли приложение в production окружении
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "customer-service")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.shutdown_timeout", 30)

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "customers")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.migrate", true)
	v.SetDefault("database.badger_path", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 15*time.Minute)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.ensure_topics", true)

	v.SetDefault("logging.level", "info")
}

// Load загружает конфигурацию: .env (если есть), config.yml (если есть), затем
// переменные окружения вида SERVER_PORT, DB_HOST, REDIS_ENABLED.
func Load() (*Config, error) {
	// Отсутствие .env файла не является ошибкой
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Список брокеров удобнее передавать строкой через запятую
	if len(cfg.Kafka.Brokers) == 1 && strings.Contains(cfg.Kafka.Brokers[0], ",") {
		cfg.Kafka.Brokers = strings.Split(cfg.Kafka.Brokers[0], ",")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindLegacyEnv привязывает короткие имена переменных, принятые в docker-compose
func bindLegacyEnv(v *viper.Viper) {
	aliases := map[string]string{
		"server.port":          "PORT",
		"database.driver":      "DB_DRIVER",
		"database.host":        "DB_HOST",
		"database.port":        "DB_PORT",
		"database.user":        "DB_USER",
		"database.password":    "DB_PASSWORD",
		"database.name":        "DB_NAME",
		"database.sslmode":     "DB_SSLMODE",
		"database.migrate":     "DB_MIGRATE",
		"database.badger_path": "DB_BADGER_PATH",
		"logging.level":        "LOG_LEVEL",
		"app.env":              "APP_ENV",
	}
	for key, env := range aliases {
		_ = v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}
}
