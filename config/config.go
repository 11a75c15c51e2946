package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL              string
	StatementTimeout time.Duration
	MaxOpenConns     int
	MaxIdleConns     int
}

// AuthConfig is the signing setup for bearer tokens. It is fixed at startup.
type AuthConfig struct {
	SecretKey      string
	Algorithm      string
	AccessTokenTTL time.Duration
	PasswordCost   int // bcrypt cost
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type StorageConfig struct {
	Backend        string // "local" or "cloudinary"
	UploadDir      string
	PublicPrefix   string
	MaxUploadBytes int64
	Cloudinary     CloudinaryConfig
}

type LogConfig struct {
	Level string
	File  string
}

type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Log      LogConfig
}

const devSecretKey = "supersecret"

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env: getEnvOrDefault("APP_ENV", "development"),
		Server: ServerConfig{
			Host:           getEnvOrDefault("HOST", "0.0.0.0"),
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			URL:              os.Getenv("DATABASE_URL"),
			StatementTimeout: 30 * time.Second,
			MaxOpenConns:     25,
			MaxIdleConns:     5,
		},
		Auth: AuthConfig{
			SecretKey:      os.Getenv("SECRET_KEY"),
			Algorithm:      getEnvOrDefault("ALGORITHM", "HS256"),
			AccessTokenTTL: 30 * time.Minute,
			PasswordCost:   10,
		},
		Storage: StorageConfig{
			Backend:        getEnvOrDefault("STORAGE_BACKEND", "local"),
			UploadDir:      getEnvOrDefault("UPLOAD_DIR", "uploads"),
			PublicPrefix:   "/uploads",
			MaxUploadBytes: 10 * 1024 * 1024,
			Cloudinary: CloudinaryConfig{
				CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
				APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
				APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			},
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
	}

	var err error
	if cfg.Server.Port, err = getIntOrDefault("PORT", cfg.Server.Port); err != nil {
		return nil, err
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	timeoutMs, err := getIntOrDefault("DB_STATEMENT_TIMEOUT_MS", int(cfg.Database.StatementTimeout/time.Millisecond))
	if err != nil {
		return nil, err
	}
	cfg.Database.StatementTimeout = time.Duration(timeoutMs) * time.Millisecond

	minutes, err := getIntOrDefault("ACCESS_TOKEN_EXPIRE_MINUTES", int(cfg.Auth.AccessTokenTTL/time.Minute))
	if err != nil {
		return nil, err
	}
	cfg.Auth.AccessTokenTTL = time.Duration(minutes) * time.Minute

	if cfg.Auth.PasswordCost, err = getIntOrDefault("BCRYPT_COST", cfg.Auth.PasswordCost); err != nil {
		return nil, err
	}

	maxMB, err := getIntOrDefault("MAX_UPLOAD_MB", int(cfg.Storage.MaxUploadBytes/(1024*1024)))
	if err != nil {
		return nil, err
	}
	cfg.Storage.MaxUploadBytes = int64(maxMB) * 1024 * 1024

	if cfg.Auth.SecretKey == "" && cfg.Env == "development" {
		cfg.Auth.SecretKey = devSecretKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that can't be defaulted.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY environment variable is required when APP_ENV is %q", c.Env)
	}
	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported ALGORITHM %q", c.Auth.Algorithm)
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.Auth.PasswordCost < 4 || c.Auth.PasswordCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	switch c.Storage.Backend {
	case "local":
	case "cloudinary":
		cl := c.Storage.Cloudinary
		if cl.CloudName == "" || cl.APIKey == "" || cl.APISecret == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for the cloudinary backend")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.Storage.Backend)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}
