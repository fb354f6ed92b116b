package config

import (
	"math"
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds the metadata database connection settings.
// Driver selects the engine: "sqlite" uses Path, "postgres" uses the host fields.
type DatabaseConfig struct {
	Driver             string
	Path               string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// StorageConfig holds settings for the on-disk storage root and the processes
// that keep it consistent with the metadata table.
type StorageConfig struct {
	// DefaultUploadFolder is used until an upload_folder setting is stored.
	DefaultUploadFolder   string
	PageSize              int
	WatcherStopTimeoutSec int
	SweepIntervalSec      int
	OrphanGraceSec        int
	// MaxUploadBytes caps a request body; zero or less means no cap.
	MaxUploadBytes int
}

// BodyLimit returns the request body limit handed to the HTTP server.
func (s StorageConfig) BodyLimit() int {
	if s.MaxUploadBytes <= 0 {
		return math.MaxInt
	}
	return s.MaxUploadBytes
}

// WatcherStopTimeout returns the bounded wait used when stopping the watcher.
func (s StorageConfig) WatcherStopTimeout() time.Duration {
	return time.Duration(s.WatcherStopTimeoutSec) * time.Second
}

// SweepInterval returns the periodic reconciler interval; zero disables it.
func (s StorageConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalSec) * time.Second
}

// OrphanGrace returns the minimum age of an unreferenced file before it is removed.
func (s StorageConfig) OrphanGrace() time.Duration {
	return time.Duration(s.OrphanGraceSec) * time.Second
}

// MinIOConfig holds object storage settings for archive offload.
// Offload is disabled when Endpoint is empty.
type MinIOConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	LinkTTLSec int
}

// Enabled reports whether an archive bucket is configured.
func (m MinIOConfig) Enabled() bool {
	return m.Endpoint != ""
}

// LogConfig controls the zerolog setup.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port     string
	Database DatabaseConfig
	Storage  StorageConfig
	MinIO    MinIOConfig
	Log      LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port: getEnv("PORT", "8000"),
		Database: DatabaseConfig{
			Driver:             getEnv("DB_DRIVER", "sqlite"),
			Path:               getEnv("DB_PATH", "pastes.db"),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			DefaultUploadFolder:   getEnv("UPLOAD_FOLDER", "./paste_bin_files"),
			PageSize:              getEnvInt("PAGE_SIZE", 15),
			WatcherStopTimeoutSec: getEnvInt("WATCHER_STOP_TIMEOUT_SEC", 5),
			SweepIntervalSec:      getEnvInt("SWEEP_INTERVAL_SEC", 0),
			OrphanGraceSec:        getEnvInt("ORPHAN_GRACE_SEC", 60),
			MaxUploadBytes:        getEnvInt("MAX_UPLOAD_BYTES", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:   getEnv("MINIO_ENDPOINT", ""),
			AccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:  getEnv("MINIO_SECRET_KEY", ""),
			Bucket:     getEnv("MINIO_BUCKET", ""),
			UseSSL:     getEnvBool("MINIO_USE_SSL", false),
			LinkTTLSec: getEnvInt("EXPORT_LINK_TTL_SEC", 3600),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
