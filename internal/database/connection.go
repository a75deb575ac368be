package database

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Supported SQL drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Connect opens a database for driver and makes sure the schema exists
func Connect(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
	case DriverPostgres:
	default:
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if driver == DriverSQLite {
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureDir(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create data directory")
	}
	return nil
}

// schema is portable between SQLite and PostgreSQL; dates are stored as
// YYYY-MM-DD text
var schema = []struct {
	table string
	ddl   string
}{
	{"words", `
		CREATE TABLE IF NOT EXISTS words (
			seq INTEGER NOT NULL,
			source_key TEXT PRIMARY KEY,
			source_text TEXT NOT NULL,
			target_text TEXT NOT NULL,
			added_on TEXT NOT NULL DEFAULT '',
			wrong_count INTEGER NOT NULL DEFAULT 0,
			last_wrong_date TEXT,
			remediation_progress INTEGER NOT NULL DEFAULT 0
		)`},
	{"daily_records", `
		CREATE TABLE IF NOT EXISTS daily_records (
			day TEXT PRIMARY KEY,
			points_delta INTEGER NOT NULL DEFAULT 0,
			words_added INTEGER NOT NULL DEFAULT 0,
			correct_count INTEGER NOT NULL DEFAULT 0,
			incorrect_count INTEGER NOT NULL DEFAULT 0,
			direct_answered INTEGER NOT NULL DEFAULT 0,
			reverse_answered INTEGER NOT NULL DEFAULT 0,
			review_answered INTEGER NOT NULL DEFAULT 0
		)`},
	{"ledger", `
		CREATE TABLE IF NOT EXISTS ledger (
			id INTEGER PRIMARY KEY,
			total_score INTEGER NOT NULL DEFAULT 0,
			last_rollover_date TEXT,
			correct_streak INTEGER NOT NULL DEFAULT 0,
			wrong_streak INTEGER NOT NULL DEFAULT 0,
			combo_multiplier DOUBLE PRECISION NOT NULL DEFAULT 1,
			direct_answered INTEGER NOT NULL DEFAULT 0,
			reverse_answered INTEGER NOT NULL DEFAULT 0,
			review_answered INTEGER NOT NULL DEFAULT 0
		)`},
	{"remediation", `
		CREATE TABLE IF NOT EXISTS remediation (
			seq INTEGER PRIMARY KEY,
			source_text TEXT NOT NULL
		)`},
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	for _, t := range schema {
		if _, err := db.Exec(t.ddl); err != nil {
			return errors.Wrapf(err, "failed to create %s table", t.table)
		}
	}
	return nil
}
