// Package config loads converter settings from environment variables.
//
// Both binaries call Load after reading an optional .env file. Every value
// has a default except the database URL, whose absence disables export.
package config

import (
	"strconv"
	"time"
)

// Config holds all settings.
type Config struct {
	Output   OutputConfig
	Server   ServerConfig
	Upload   UploadConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// OutputConfig controls where the CLI writes converted files.
type OutputConfig struct {
	// Dir receives output.csv or the three output_<aspect>.csv files (default: .)
	Dir string `env:"OUTPUT_DIR" default:"."`
}

// ServerConfig holds HTTP server settings for convertd.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including conversions in flight
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the chi Timeout middleware limit
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig limits what one conversion request may submit.
type UploadConfig struct {
	// MaxFileSize caps the whole multipart body in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`

	// MaxConcurrent is how many conversions run at once (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a request waits for a conversion slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// DatabaseConfig holds the optional PostgreSQL export target.
type DatabaseConfig struct {
	// URL enables export when set. DB_URL is accepted as an alias.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Table receives daily rows; <Table>_runs receives one row per run
	Table string `env:"DB_TABLE" default:"covid_daily"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"4"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Enabled reports whether export is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
