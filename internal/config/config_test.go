package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("PORT", "")
	t.Setenv("PASSWORD_RESET_TIMEOUT", "")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("DEV", "")

	cfg := Load()
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "media", cfg.Storage.UploadDir)
	assert.Equal(t, 72*time.Hour, cfg.Auth.ResetTimeout)
	assert.True(t, cfg.App.Dev)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DEV", "no")
	t.Setenv("MAX_UPLOAD_MB", "not-a-number")
	t.Setenv("BASE_URL", "https://oficont.example/")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.App.Dev)
	assert.Equal(t, 10, cfg.Storage.MaxUploadMB, "invalid ints fall back to the default")
	assert.Equal(t, "https://oficont.example", cfg.Server.BaseURL)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "oficont", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=oficont sslmode=disable", d.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/oficont?sslmode=disable", d.URL())
}

func TestDatabaseRawDSN(t *testing.T) {
	d := DatabaseConfig{RawDSN: `  "host=db   user=u password=p dbname=oficont"  `}
	assert.Equal(t, "host=db user=u password=p dbname=oficont sslmode=disable", d.DSN())
	assert.Equal(t, "postgres://u:p@db/oficont?sslmode=disable", d.URL())

	d = DatabaseConfig{RawDSN: "postgres://u:p@db:5432/oficont"}
	assert.Equal(t, "postgres://u:p@db:5432/oficont", d.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/oficont", d.URL())
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "postgres"},
		App:      AppConfig{Dev: true},
		Auth:     AuthConfig{ResetTimeout: time.Hour},
		Storage:  StorageConfig{UploadDir: "media", MaxUploadMB: 10},
	}
	require.NoError(t, cfg.Validate())

	cfg.App.Dev = false
	cfg.Database.Driver = "mysql"
	cfg.Storage.MaxUploadMB = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
	assert.Contains(t, err.Error(), "SESSION_SECRET")
	assert.Contains(t, err.Error(), "MAX_UPLOAD_MB")
}

func TestValidateSQLiteRejectsSQLMigrations(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "sqlite", SQLitePath: "x.db"},
		App:      AppConfig{Dev: true, Migrations: true},
		Auth:     AuthConfig{ResetTimeout: time.Hour},
		Storage:  StorageConfig{UploadDir: "media", MaxUploadMB: 1},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIGRATIONS=1")
}
