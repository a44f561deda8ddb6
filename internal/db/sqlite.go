package db

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// sqliteDriver is the SQLite driver with a Unicode-aware lower(). The
// built-in one folds ASCII only, so Cyrillic filters would never match.
const sqliteDriver = "sqlite3_outofschool"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

func unicodeLower(v interface{}) interface{} {
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

// sqlDriverName maps a configured driver to the registered database/sql name
func sqlDriverName(driver string) string {
	if driver == DriverSQLite {
		return sqliteDriver
	}
	return driver
}

// OpenSQLite opens a SQLite database with Unicode case folding installed
func OpenSQLite(dsn string) (*sql.DB, error) {
	return sql.Open(sqliteDriver, dsn)
}
