package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Repository RepositoryConfig `yaml:"repository"`
	Auth       AuthConfig       `yaml:"auth"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	CORS       CORSConfig       `yaml:"cors"`
	Worker     WorkerConfig     `yaml:"worker"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            string        `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT,strict"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT,strict"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT,strict"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT,strict"`
	TrustProxy      bool          `yaml:"trust_proxy" env:"SERVER_TRUST_PROXY,strict"` // доверять X-Forwarded-For
}

type DatabaseConfig struct {
	URL            string        `yaml:"url" env:"DATABASE_URL"`
	MaxConnections int32         `yaml:"max_connections" env:"DB_MAX_CONN,strict"`
	MinConnections int32         `yaml:"min_connections" env:"DB_MIN_CONN,strict"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"DB_IDLE_TIMEOUT,strict"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT,strict"`
	MigrateOnStart bool          `yaml:"migrate_on_start" env:"DB_MIGRATE_ON_START,strict"`
}

type LoggingConfig struct {
	Development bool `yaml:"development" env:"LOG_DEVELOPMENT,strict"`
}

type RepositoryConfig struct {
	Type string `yaml:"type" env:"REPOSITORY_TYPE"` // "postgres" или "inmemory"
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"JWT_TTL,strict"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"RATE_LIMIT_RPS,strict"`
	Burst             int     `yaml:"burst" env:"RATE_LIMIT_BURST,strict"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"` // в окружении через ";"
}

type WorkerConfig struct {
	HealthInterval time.Duration `yaml:"health_interval" env:"WORKER_HEALTH_INTERVAL,strict"`
}

// Default возвращает конфигурацию, с которой сервис стартует без config.yml.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "9000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConnections: 10,
			MinConnections: 2,
			IdleTimeout:    5 * time.Minute,
			ConnectTimeout: 5 * time.Second,
			MigrateOnStart: true,
		},
		Repository: RepositoryConfig{Type: RepositoryPostgres},
		Auth:       AuthConfig{TokenTTL: 7 * 24 * time.Hour},
		RateLimit:  RateLimitConfig{RequestsPerSecond: 10, Burst: 20},
		CORS:       CORSConfig{AllowedOrigins: []string{"*"}},
		Worker:     WorkerConfig{HealthInterval: 30 * time.Second},
	}
}

// Load читает YAML-файл поверх значений по умолчанию и накладывает переменные окружения.
// Отсутствующий файл не ошибка: конфигурация может целиком прийти из окружения.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("не могу прочитать .env: %w", err)
	}

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	}

	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: не задан auth.jwt_secret (JWT_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: auth.token_ttl должен быть положительным")
	}
	switch c.Repository.Type {
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("config: не задан database.url (DATABASE_URL)")
		}
	case RepositoryInMemory:
	default:
		return fmt.Errorf("config: неизвестный тип репозитория %q", c.Repository.Type)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
