package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Server   ServerConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password),
		d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings. An empty Addr disables the
// cross-instance event relay; a single server process does not need Redis.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds JWT authentication settings.
type JWTConfig struct {
	Secret     string //nolint:gosec // G117: JWT signing secret config
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, DB password) must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("ARENA_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("ARENA_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("ARENA_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	accessTTL, err := getEnvDuration("ARENA_JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	refreshTTL, err := getEnvDuration("ARENA_JWT_REFRESH_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("ARENA_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("ARENA_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("ARENA_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("ARENA_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("ARENA_DB_USER", "arena"),
			Password: getEnv("ARENA_DB_PASSWORD", ""),
			DBName:   getEnv("ARENA_DB_NAME", "arena_dev"),
			SSLMode:  getEnv("ARENA_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("ARENA_REDIS_ADDR", ""),
			Password: getEnv("ARENA_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:     getEnv("ARENA_JWT_SECRET", ""),
			AccessTTL:  accessTTL,
			RefreshTTL: refreshTTL,
		},
		Server: ServerConfig{
			Addr:         getEnv("ARENA_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("ARENA_JWT_SECRET must be set")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("ARENA_JWT_SECRET must be at least 32 bytes")
	}
	if c.Database.MaxConns < 1 {
		return errors.New("ARENA_DB_MAX_CONNS must be at least 1")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT TTLs must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
