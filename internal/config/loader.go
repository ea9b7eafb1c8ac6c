package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load builds a Config from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	for _, s := range settings(reflect.ValueOf(cfg).Elem()) {
		if err := s.apply(); err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// setting is one env-tagged leaf field of Config.
type setting struct {
	names []string // env, then envAlt if present
	def   string
	dst   reflect.Value
}

// settings flattens the tagged fields of v, descending into sections.
func settings(v reflect.Value) []setting {
	var out []setting
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f, dst := t.Field(i), v.Field(i)
		if !dst.CanSet() {
			continue
		}
		if f.Type.Kind() == reflect.Struct {
			out = append(out, settings(dst)...)
			continue
		}

		name := f.Tag.Get("env")
		if name == "" {
			continue
		}
		s := setting{names: []string{name}, def: f.Tag.Get("default"), dst: dst}
		if alt := f.Tag.Get("envAlt"); alt != "" {
			s.names = append(s.names, alt)
		}
		out = append(out, s)
	}
	return out
}

// apply stores the first non-empty variable, or the default. An empty
// result leaves the zero value.
func (s setting) apply() error {
	raw, from := s.def, s.names[0]
	for _, name := range s.names {
		if v := os.Getenv(name); v != "" {
			raw, from = v, name
			break
		}
	}
	if raw == "" {
		return nil
	}
	if err := parseInto(s.dst, raw); err != nil {
		return fmt.Errorf("invalid value for %s=%q: %w", from, raw, err)
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

func parseInto(dst reflect.Value, raw string) error {
	switch {
	case dst.Type() == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		dst.SetInt(int64(d))
	case dst.Kind() == reflect.String:
		dst.SetString(raw)
	case dst.CanInt():
		n, err := strconv.ParseInt(raw, 10, dst.Type().Bits())
		if err != nil {
			return err
		}
		dst.SetInt(n)
	default:
		return fmt.Errorf("unsupported field type %s", dst.Type())
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(c.Output.Dir != "", "OUTPUT_DIR must not be empty")

	check(c.Server.Port > 0 && c.Server.Port <= 65535, "SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	check(c.Server.ReadTimeout >= 0, "SERVER_READ_TIMEOUT must be non-negative")
	check(c.Server.ShutdownTimeout > 0, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	check(c.Server.RequestTimeout > 0, "SERVER_REQUEST_TIMEOUT must be positive")

	check(c.Upload.MaxFileSize > 0, "UPLOAD_MAX_FILE_SIZE must be positive")
	check(c.Upload.MaxConcurrent > 0, "UPLOAD_MAX_CONCURRENT must be positive")
	check(c.Upload.MaxWaitTime > 0, "UPLOAD_MAX_WAIT_TIME must be positive")

	// Pool settings only matter when export is on.
	if db := c.Database; db.Enabled() {
		check(db.Table != "", "DB_TABLE must not be empty")
		check(db.MaxConns > 0, "DB_MAX_CONNS must be positive")
		check(db.MinConns >= 0, "DB_MIN_CONNS must be non-negative")
		check(db.MaxConns >= db.MinConns, "DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", db.MaxConns, db.MinConns)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		check(false, "LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		check(false, "LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)
	}

	if len(problems) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// String renders the settings for a debug log line with the database URL
// masked.
func (c *Config) String() string {
	url := "disabled"
	if c.Database.Enabled() {
		url = "[MASKED]"
	}
	return fmt.Sprintf(
		"Config{Output: {Dir: %q}, Server: {Addr: %q}, Upload: {MaxFileSize: %d, MaxConcurrent: %d}, "+
			"Database: {URL: %s, Table: %q, MaxConns: %d}, Logging: {Level: %q, Format: %q}}",
		c.Output.Dir, c.Server.Addr(),
		c.Upload.MaxFileSize, c.Upload.MaxConcurrent,
		url, c.Database.Table, c.Database.MaxConns,
		c.Logging.Level, c.Logging.Format,
	)
}
