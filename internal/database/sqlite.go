package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openSQLite opens a file-backed database, creating the parent directory on
// first run. An empty or ":memory:" path selects a shared in-memory database,
// which the tests rely on.
func openSQLite(cfg Config) (*gorm.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = sqliteDSN(cfg.Path)
		if dsn == "" {
			if err := ensureDir(cfg.Path); err != nil {
				return nil, err
			}
			dsn = "file:" + filepath.ToSlash(strings.TrimSpace(cfg.Path)) +
				"?_foreign_keys=1&_journal_mode=WAL"
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		// gorm's own logger duplicates what the request logger already
		// records, so keep it quiet
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: false,
	})
	if err != nil {
		return nil, err
	}

	if err := enableForeignKeys(db); err != nil {
		return nil, err
	}
	return db, nil
}

// sqliteDSN returns the in-memory DSN for memory paths, "" for file paths.
func sqliteDSN(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || strings.EqualFold(path, ":memory:") {
		return "file::memory:?cache=shared&_foreign_keys=1"
	}
	return ""
}

func ensureDir(path string) error {
	dir := filepath.Dir(strings.TrimSpace(path))
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// enableForeignKeys turns the pragma on for connections already in the pool;
// new connections get it from the DSN.
func enableForeignKeys(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil && err != sql.ErrConnDone {
		return err
	}
	return nil
}
