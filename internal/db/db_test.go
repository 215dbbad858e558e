package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/oficont/oficont/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn, false, ""))
	return conn
}

func TestMigrate_CreatesCoreTables(t *testing.T) {
	conn := setupTestDB(t)
	for _, table := range append(coreTables, "profiles", "permissions", "profile_permissions") {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
}

func TestMigrationFiles_Embedded(t *testing.T) {
	up, err := fs.ReadFile(migrationsFS, "migrations/000001_init.up.sql")
	require.NoError(t, err)
	sql := string(up)
	for _, table := range coreTables {
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, sql, "CHECK (amount >= 0)")
	assert.Contains(t, sql, "CHECK (period_start <= period_end)")

	_, err = fs.ReadFile(migrationsFS, "migrations/000001_init.down.sql")
	require.NoError(t, err)

	src, err := MigrationSource()
	require.NoError(t, err)
	defer src.Close()
	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}

func TestSeed_Idempotent(t *testing.T) {
	conn := setupTestDB(t)
	require.NoError(t, Seed(conn))
	require.NoError(t, Seed(conn))

	var perms, profiles, cats, cfgs int64
	conn.Model(&models.Permission{}).Count(&perms)
	conn.Model(&models.Profile{}).Count(&profiles)
	conn.Model(&models.Category{}).Count(&cats)
	conn.Model(&models.SystemConfig{}).Count(&cfgs)

	assert.Equal(t, int64(1+len(Resources)*len(actionDescriptions)), perms)
	assert.Equal(t, int64(2), profiles)
	defaults, err := DefaultCategories()
	require.NoError(t, err)
	assert.Equal(t, int64(len(defaults)), cats)
	assert.Equal(t, int64(1), cfgs)

	var admin models.Profile
	require.NoError(t, conn.Preload("Permissions").Where("name = ?", "admin").First(&admin).Error)
	require.Len(t, admin.Permissions, 1)
	assert.Equal(t, "*:*", admin.Permissions[0].Code())

	var contador models.Profile
	require.NoError(t, conn.Preload("Permissions").Where("name = ?", "contador").First(&contador).Error)
	codes := make([]string, 0, len(contador.Permissions))
	for _, p := range contador.Permissions {
		codes = append(codes, p.Code())
	}
	assert.Contains(t, codes, "transaction:*")
	assert.NotContains(t, codes, "config:update")
}

func TestSeedSystemConfig_KeepsExisting(t *testing.T) {
	conn := setupTestDB(t)
	cfg := models.DefaultSystemConfig()
	cfg.OfficeName = "Contadores Asociados"
	require.NoError(t, conn.Create(&cfg).Error)

	require.NoError(t, SeedSystemConfig(conn))

	var got models.SystemConfig
	require.NoError(t, conn.First(&got, models.SystemConfigID).Error)
	assert.Equal(t, "Contadores Asociados", got.OfficeName)
}

func TestDefaultCategories_CoverEveryType(t *testing.T) {
	cats, err := DefaultCategories()
	require.NoError(t, err)
	seen := map[models.CategoryType]bool{}
	for _, c := range cats {
		seen[c.Type] = true
	}
	for _, ct := range models.CategoryTypes {
		assert.True(t, seen[ct], "missing default category of type %s", ct)
	}
}

func TestMaskDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"host=db user=app password=s3cret dbname=oficont", "host=db user=app password=*** dbname=oficont"},
		{"postgres://app:s3cret@db:5432/oficont?sslmode=disable", "postgres://app:***@db:5432/oficont?sslmode=disable"},
		{"host=db user=app dbname=oficont", "host=db user=app dbname=oficont"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskDSN(tt.in))
	}
}
