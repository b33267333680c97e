// Package sqlitedb registers the sqlite driver used by every embedded store.
// It replaces sqlite's ASCII-only LOWER with a Unicode-aware one so that
// case-insensitive LIKE filters behave like they do on PostgreSQL.
package sqlitedb

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DriverName is the database/sql name of the registered driver
const DriverName = "sqlite3_scouting"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", lower, true)
		},
	})
}

func lower(v interface{}) interface{} {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		if s == nil {
			return nil
		}
		return strings.ToLower(string(s))
	default:
		return v
	}
}

// Open returns a gorm dialector for dsn backed by the registered driver
func Open(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{DriverName: DriverName, DSN: dsn})
}
