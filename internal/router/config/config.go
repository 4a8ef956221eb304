package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	MemoryStorage   = "memory"
	PostgresStorage = "postgres"

	MemoryRateLimit = "memory"
	RedisRateLimit  = "redis"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress    string        `mapstructure:"SERVER_ADDRESS"`
	StorageDriver    string        `mapstructure:"STORAGE_DRIVER"`
	PostgresConn     string        `mapstructure:"POSTGRES_CONN"`
	PostgresUser     string        `mapstructure:"POSTGRES_USERNAME"`
	PostgresPass     string        `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost     string        `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string        `mapstructure:"POSTGRES_PORT"`
	PostgresDB       string        `mapstructure:"POSTGRES_DATABASE"`
	MigrationURL     string        `mapstructure:"MIGRATION_URL"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RateLimitRPS     float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int           `mapstructure:"RATE_LIMIT_BURST"`
	RateLimitBackend string        `mapstructure:"RATE_LIMIT_BACKEND"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
}

var defaults = map[string]interface{}{
	"SERVER_ADDRESS":     "0.0.0.0:8080",
	"STORAGE_DRIVER":     MemoryStorage,
	"POSTGRES_CONN":      "",
	"POSTGRES_USERNAME":  "",
	"POSTGRES_PASSWORD":  "",
	"POSTGRES_HOST":      "",
	"POSTGRES_PORT":      "5432",
	"POSTGRES_DATABASE":  "",
	"MIGRATION_URL":      "file://migrations",
	"JWT_SECRET":         "",
	"REQUEST_TIMEOUT":    5 * time.Second,
	"RATE_LIMIT_RPS":     10.0,
	"RATE_LIMIT_BURST":   20,
	"RATE_LIMIT_BACKEND": MemoryRateLimit,
	"REDIS_ADDR":         "",
}

// LoadConfig загружает конфигурацию из .env и app.env в каталоге path и из переменных окружения.
// Переменные окружения имеют приоритет, файлы необязательны.
func LoadConfig(path string) (cfg Config, err error) {
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read app.env: %w", err)
		}
	}
	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case MemoryStorage:
	case PostgresStorage:
		if c.PostgresConn == "" {
			return errors.New("POSTGRES_CONN is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER: %q", c.StorageDriver)
	}

	switch c.RateLimitBackend {
	case MemoryRateLimit:
	case RedisRateLimit:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis rate limit backend")
		}
	default:
		return fmt.Errorf("unsupported RATE_LIMIT_BACKEND: %q", c.RateLimitBackend)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}
