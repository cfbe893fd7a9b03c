package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Storage   StorageConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"3000"`
	APIURL          string        `env:"API_URL" envDefault:"/api/v1"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// DatabaseConfig holds MongoDB connection configuration.
type DatabaseConfig struct {
	URI            string        `env:"CONNECTION_STRING" envDefault:"mongodb://localhost:27017"`
	Name           string        `env:"DB_NAME" envDefault:"E-shop"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize    uint64        `env:"DB_MAX_POOL_SIZE" envDefault:"25"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "console"
}

// AuthConfig holds token signing and password hashing configuration.
type AuthConfig struct {
	Secret    string        `env:"SECRET_KEY"`
	Algorithm string        `env:"ALGORITHM" envDefault:"HS256"`
	SaltCost  int           `env:"SALT" envDefault:"10"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

// StorageConfig selects where uploaded product images are written.
type StorageConfig struct {
	Backend     string `env:"STORAGE_BACKEND" envDefault:"local"` // "local" or "s3"
	UploadDir   string `env:"UPLOAD_DIR" envDefault:"public/uploads"`
	PublicPath  string `env:"UPLOAD_PUBLIC_PATH" envDefault:"/public/uploads/"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Prefix    string `env:"S3_PREFIX" envDefault:"uploads/"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

// CORSConfig holds the origins allowed by the CORS middleware.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// RateLimitConfig throttles the credential endpoints per client address.
type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"AUTH_RATE_LIMIT_RPS" envDefault:"5"`
	Burst             int     `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`
}

// Load loads configuration from environment variables, reading an optional .env file first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.Server.APIURL = normaliseAPIURL(cfg.Server.APIURL)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if !strings.HasPrefix(c.Server.APIURL, "/") {
		return fmt.Errorf("invalid API URL: %q (must start with /)", c.Server.APIURL)
	}

	if c.Database.URI == "" {
		return fmt.Errorf("database connection string is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxPoolSize < 1 {
		return fmt.Errorf("database max pool size must be at least 1")
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("secret key is required")
	}

	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("invalid signing algorithm: %s (must be HS256, HS384 or HS512)", c.Auth.Algorithm)
	}

	if c.Auth.SaltCost < bcrypt.MinCost || c.Auth.SaltCost > bcrypt.MaxCost {
		return fmt.Errorf("invalid salt cost: %d (must be between %d and %d)", c.Auth.SaltCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	switch c.Storage.Backend {
	case "local":
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("upload directory is required for local storage")
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required when the s3 storage backend is selected")
		}
		if c.Storage.S3Region == "" {
			return fmt.Errorf("S3 region is required when the s3 storage backend is selected")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be local or s3)", c.Storage.Backend)
	}

	if !strings.HasPrefix(c.Storage.PublicPath, "/") {
		return fmt.Errorf("invalid upload public path: %q (must start with /)", c.Storage.PublicPath)
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1 {
		return fmt.Errorf("auth rate limit must have positive rate and burst")
	}

	return nil
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// normaliseAPIURL trims a trailing slash so routes can be joined with "/".
func normaliseAPIURL(u string) string {
	u = strings.TrimSpace(u)
	if len(u) > 1 {
		u = strings.TrimRight(u, "/")
	}
	return u
}
