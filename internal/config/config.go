package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Session cache (embedded Badger key-value store with TTL eviction)
	CachePath string
	// SessionTTL is the lifetime of a bearer token: 24 hours unless
	// overridden. See DESIGN.md for the unit decision.
	SessionTTL time.Duration

	// Blob storage
	StorageDriver string // "local" or "s3"
	FolderPath    string // local driver: flat directory for stored bytes

	// Storage - S3 (only used when StorageDriver == "s3")
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services (MinIO, R2, etc.)

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "FileVault"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "5000"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/filevault.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		CachePath:  envString("CACHE_PATH", "./data/cache"),
		SessionTTL: envDuration("SESSION_TTL", 24*time.Hour),

		StorageDriver: envString("STORAGE_DRIVER", "local"),
		FolderPath:    envString("FOLDER_PATH", "/tmp/files_manager"),

		S3Region:    envString("S3_REGION", ""),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),

		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.StorageDriver == "s3" {
		validateS3(cfg)
	}

	return cfg
}

// validateS3 ensures the S3 driver has the credentials it cannot run without.
// The local driver needs nothing beyond a writable FOLDER_PATH.
func validateS3(cfg *Config) {
	for key, v := range map[string]string{
		"S3_REGION":     cfg.S3Region,
		"S3_BUCKET":     cfg.S3Bucket,
		"S3_ACCESS_KEY": cfg.S3AccessKey,
		"S3_SECRET_KEY": cfg.S3SecretKey,
	} {
		if v == "" {
			slog.Error("config required env var missing for s3 storage", "key", key)
			os.Exit(1)
		}
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
