package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	OCR      OCRConfig
	Pipeline PipelineConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds transaction-store configuration
type DatabaseConfig struct {
	Driver          string // "postgres" | "sqlite"
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// OCRConfig holds recognition-engine configuration
type OCRConfig struct {
	Mode      string // "local" | "remote"
	RemoteURL string
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Language  string // recognition language hint, default "por"
	DPI       int    // rasterization DPI for scanned PDFs
	MaxPages  int    // max pages OCRed per scanned PDF, 0 = no limit
	Timeout   time.Duration
}

// PipelineConfig holds orchestrator behavior
type PipelineConfig struct {
	Concurrency int // max documents recognized in parallel per batch
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes:  getEnvAsInt64("MAX_UPLOAD_BYTES", 25<<20),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			DSN:             getEnv("DB_URL", "file:contas.db?_pragma=busy_timeout(5000)"),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		OCR: OCRConfig{
			Mode:      getEnv("OCR_MODE", "local"),
			RemoteURL: getEnv("OCR_URL", ""),
			Tesseract: getEnv("TESSERACT_BIN", "tesseract"),
			Pdftoppm:  getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Language:  getEnv("OCR_LANG", "por"),
			DPI:       getEnvAsInt("OCR_DPI", 300),
			MaxPages:  getEnvAsInt("OCR_MAX_PAGES", 0),
			Timeout:   getEnvAsDuration("OCR_TIMEOUT", 60*time.Second),
		},
		Pipeline: PipelineConfig{
			Concurrency: getEnvAsInt("PIPELINE_CONCURRENCY", 4),
		},
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return NewAppError("CONFIG_ERROR", "DB_DRIVER must be postgres or sqlite", ErrInvalidInput)
	}
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.OCR.Mode != "local" && c.OCR.Mode != "remote" {
		return NewAppError("CONFIG_ERROR", "OCR_MODE must be local or remote", ErrInvalidInput)
	}
	if c.OCR.Mode == "remote" && c.OCR.RemoteURL == "" {
		return NewAppError("CONFIG_ERROR", "OCR_URL is required when OCR_MODE=remote", ErrInvalidInput)
	}
	if c.Pipeline.Concurrency <= 0 {
		return NewAppError("CONFIG_ERROR", "PIPELINE_CONCURRENCY must be positive", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
