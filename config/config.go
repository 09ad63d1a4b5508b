package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Detector DetectorConfig
	Auth     AuthConfig
	Archive  ArchiveConfig
	Limits   LimitsConfig
	App      AppConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DetectorConfig struct {
	URL     string
	Timeout time.Duration
}

type AuthConfig struct {
	// Mode is "firebase" (verify ID tokens) or "header" (trust the
	// gateway-set X-User-Id header).
	Mode            string
	CredentialsPath string
}

type ArchiveConfig struct {
	Bucket string
	Region string
}

type LimitsConfig struct {
	SubmitPerMin int
	SubmitBurst  int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "")),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Detector: DetectorConfig{
			URL:     getEnv("DETECTOR_URL", "http://localhost:5000"),
			Timeout: time.Duration(getEnvAsInt("DETECTOR_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Auth: AuthConfig{
			Mode:            getEnv("AUTH_MODE", "header"),
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Archive: ArchiveConfig{
			Bucket: getEnv("ARCHIVE_BUCKET", ""),
			Region: getEnv("AWS_REGION", ""),
		},
		Limits: LimitsConfig{
			SubmitPerMin: getEnvAsInt("SUBMIT_RATE_PER_MIN", 0),
			SubmitBurst:  getEnvAsInt("SUBMIT_BURST", 3),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if c.Detector.URL == "" {
		return fmt.Errorf("DETECTOR_URL is required")
	}

	if c.Auth.Mode != "header" && c.Auth.Mode != "firebase" {
		return fmt.Errorf("AUTH_MODE must be 'header' or 'firebase'")
	}

	if c.Auth.Mode == "firebase" && c.Auth.CredentialsPath == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required in firebase mode")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
