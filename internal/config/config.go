// Package config loads and validates application configuration from
// environment variables and an optional YAML config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values for the server and the CLI.
// Values are populated by Load. Environment variables override the config file,
// which overrides the defaults.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of origins allowed to call the JSON API.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// SessionTTL is how long a dashboard login lasts. Defaults to two weeks.
	SessionTTL time.Duration

	// SecureCookies marks the session and flash cookies Secure. Enable it
	// whenever the site is served over HTTPS.
	SecureCookies bool

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// MetricsEnabled exposes Prometheus metrics on GET /metrics. Defaults to true.
	MetricsEnabled bool

	// Superuser* seed the first dashboard account (ensure-superuser).
	SuperuserUsername string
	SuperuserEmail    string
	SuperuserPassword string
}

var defaults = map[string]any{
	"port":               "8080",
	"log_level":          "info",
	"cors_origins":       "http://localhost:5173",
	"session_ttl":        "336h",
	"secure_cookies":     false,
	"max_body_bytes":     int64(1 << 20),
	"metrics_enabled":    true,
	"database_url":       "",
	"superuser_username": "",
	"superuser_email":    "",
	"superuser_password": "",
}

// Load reads configuration and returns a Config. file is an optional YAML
// config file; an empty string skips it, a file that cannot be read is an error.
// Returns an error listing any required values that are not set.
func Load(file string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// Keys map to upper-case environment variables: database_url → DATABASE_URL.
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:              v.GetString("port"),
		DatabaseURL:       v.GetString("database_url"),
		LogLevel:          strings.ToLower(v.GetString("log_level")),
		CORSOrigins:       stringList(v.Get("cors_origins")),
		SessionTTL:        v.GetDuration("session_ttl"),
		SecureCookies:     v.GetBool("secure_cookies"),
		MaxBodyBytes:      v.GetInt64("max_body_bytes"),
		MetricsEnabled:    v.GetBool("metrics_enabled"),
		SuperuserUsername: v.GetString("superuser_username"),
		SuperuserEmail:    v.GetString("superuser_email"),
		SuperuserPassword: v.GetString("superuser_password"),
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required configuration not set: %s", strings.Join(missing, ", "))
	}

	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be a positive duration such as 336h, got %q", v.GetString("session_ttl"))
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}

	return cfg, nil
}

// stringList accepts either a comma-separated string (environment) or a YAML
// list (config file).
func stringList(raw any) []string {
	switch val := raw.(type) {
	case string:
		return splitCSV(val)
	case []any:
		var out []string
		for _, item := range val {
			out = append(out, splitCSV(fmt.Sprint(item))...)
		}
		return out
	case []string:
		return splitCSV(strings.Join(val, ","))
	}
	return nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
