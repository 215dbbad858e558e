// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Mail     MailConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	BaseURL      string // used to build absolute links in outgoing mail
	ReadTimeout  int    // seconds
	WriteTimeout int    // seconds
	IdleTimeout  int    // seconds
}

// DatabaseConfig holds database connection settings.
// Driver is "postgres" (default) or "sqlite"; for sqlite only SQLitePath is used.
type DatabaseConfig struct {
	Driver     string
	RawDSN     string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
	Debug      bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations bool
	Seed       bool
}

// AuthConfig holds session and password reset settings.
type AuthConfig struct {
	SessionSecret string
	SessionTTL    time.Duration
	ResetTimeout  time.Duration
}

// StorageConfig controls where uploaded receipts and reports are written.
type StorageConfig struct {
	UploadDir   string
	MaxUploadMB int
}

// MailConfig configures outgoing mail. An empty Host logs messages instead of sending them.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// DSN returns the PostgreSQL connection string in key=value format.
// An explicit DATABASE_DSN takes precedence over the individual parts.
func (d DatabaseConfig) DSN() string {
	if d.RawDSN != "" {
		return NormalizeDSN(d.RawDSN)
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format, as golang-migrate expects it.
func (d DatabaseConfig) URL() string {
	if d.RawDSN != "" {
		return toURLDSN(NormalizeDSN(d.RawDSN))
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// NormalizeDSN accepts either a URL style DSN (postgres://...) or a key=value list.
// It trims quotes and whitespace and adds sslmode=disable to key=value lists lacking it.
func NormalizeDSN(raw string) string {
	s := strings.Trim(strings.TrimSpace(raw), "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	if !kvPairRegex.MatchString(s) {
		return s
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

func toURLDSN(kv string) string {
	if strings.HasPrefix(strings.ToLower(kv), "postgres") && strings.Contains(kv, "://") {
		return kv
	}
	m := map[string]string{}
	for _, part := range strings.Fields(kv) {
		if k, v, ok := strings.Cut(part, "="); ok {
			m[strings.ToLower(k)] = v
		}
	}
	if m["host"] == "" || m["user"] == "" || m["dbname"] == "" {
		return kv
	}
	u := &url.URL{Scheme: "postgres", Host: m["host"], Path: "/" + m["dbname"]}
	if m["port"] != "" {
		u.Host += ":" + m["port"]
	}
	if m["password"] != "" {
		u.User = url.UserPassword(m["user"], m["password"])
	} else {
		u.User = url.User(m["user"])
	}
	if m["sslmode"] != "" {
		u.RawQuery = "sslmode=" + m["sslmode"]
	}
	return u.String()
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8000"),
			BaseURL:      strings.TrimRight(getEnv("BASE_URL", "http://localhost:8000"), "/"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			RawDSN:     os.Getenv("DATABASE_DSN"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "oficont"),
			Password:   getEnv("DB_PASSWORD", "oficont"),
			DBName:     getEnv("DB_NAME", "oficont"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "oficont.db"),
			Debug:      getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Dev:        getEnvBool("DEV", true),
			Migrations: getEnvBool("MIGRATIONS", false),
			Seed:       getEnvBool("DB_SEED", true),
		},
		Auth: AuthConfig{
			SessionSecret: os.Getenv("SESSION_SECRET"),
			SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_HOURS", 14*24)) * time.Hour,
			ResetTimeout:  time.Duration(getEnvInt("PASSWORD_RESET_TIMEOUT", 72*3600)) * time.Second,
		},
		Storage: StorageConfig{
			UploadDir:   getEnv("UPLOAD_DIR", "media"),
			MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 10),
		},
		Mail: MailConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("MAIL_FROM", "no-reply@oficont.local"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "postgres":
	case "sqlite":
		if c.Database.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required when DB_DRIVER=sqlite"))
		}
		if c.App.Migrations {
			errs = append(errs, errors.New("MIGRATIONS=1 is only supported with DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}
	if !c.App.Dev && c.Auth.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required outside dev mode"))
	}
	if c.Storage.UploadDir == "" {
		errs = append(errs, errors.New("UPLOAD_DIR must not be empty"))
	}
	if c.Storage.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_MB must be positive"))
	}
	if c.Auth.ResetTimeout <= 0 {
		errs = append(errs, errors.New("PASSWORD_RESET_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
