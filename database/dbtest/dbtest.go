// Package dbtest opens throwaway sqlite stores for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/joemans3/TandemLaunch-Scouting-DB/database/sqlitedb"
	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates a migrated sqlite database under t.TempDir, closed when the test ends
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "scouting.db")
	db, err := gorm.Open(sqlitedb.Open(path+"?_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}
