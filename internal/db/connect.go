// Package db opens the database, applies the schema and seeds reference data.
package db

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/oficont/oficont/internal/config"
	"github.com/oficont/oficont/internal/logging"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 10
	connectBackoff  = 2 * time.Second
)

var passwordRe = regexp.MustCompile(`(password=)([^\s]+)|(://[^:/]+:)([^@]+)(@)`)

// MaskDSN hides the password of a key=value or URL DSN for logging.
func MaskDSN(dsn string) string {
	return passwordRe.ReplaceAllString(dsn, "${1}${3}***${5}")
}

// Open connects using cfg.Driver, retrying postgres while the server starts up.
func Open(cfg config.DatabaseConfig, log *logging.Logger) (*gorm.DB, error) {
	log = log.WithComponent("db")
	gcfg := &gorm.Config{
		Logger:         gormLogger(log, cfg.Debug),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on")
		log.Info("opening database", "driver", "sqlite", "path", cfg.SQLitePath)
	default:
		dsn := cfg.DSN()
		dialector = postgres.Open(dsn)
		log.Info("opening database", "driver", "postgres", "dsn", MaskDSN(dsn))
	}

	var (
		conn *gorm.DB
		err  error
	)
	for i := 1; i <= connectAttempts; i++ {
		conn, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		if cfg.Driver == "sqlite" {
			break
		}
		log.Warn("database not ready, retrying", "attempt", i, "error", err)
		time.Sleep(connectBackoff)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Ping(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Ping runs a trivial query; /healthz relies on it.
func Ping(conn *gorm.DB) error {
	if err := conn.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return nil
}

func gormLogger(log *logging.Logger, debug bool) gormlogger.Interface {
	level, recordLevel := gormlogger.Warn, slog.LevelWarn
	if debug {
		level, recordLevel = gormlogger.Info, slog.LevelInfo
	}
	return gormlogger.New(
		slog.NewLogLogger(log.Handler(), recordLevel),
		gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}
