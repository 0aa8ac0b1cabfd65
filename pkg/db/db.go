// Package db opens the agentdir SQLite database that backs the viewer's
// local store and applies its schema migrations.
package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// BasePathEnv overrides the directory holding agentdir's local data.
const BasePathEnv = "AGENTDIR_BASE_PATH"

// BaseDir returns the directory for agentdir's device-local files.
func BaseDir() (string, error) {
	if base := os.Getenv(BasePathEnv); base != "" {
		return base, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, ".agentdir"), nil
}

// DefaultDBPath returns the default location of the storage database.
func DefaultDBPath() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "storage.db"), nil
}

// Open opens or creates the SQLite database at dbPath and configures it.
func Open(ctx context.Context, dbPath string) (*sqlx.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if err := Configure(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to configure database")
	}

	return db, nil
}

// OpenAndMigrate opens the database and brings its schema up to date.
func OpenAndMigrate(ctx context.Context, dbPath string, migrations []Migration) (*sqlx.DB, error) {
	db, err := Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	if err := NewMigrationRunner(db).Run(ctx, migrations); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Configure applies the WAL pragmas. Two agentdir processes may share the
// database, so a busy timeout is set and a single connection is used per
// process.
func Configure(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=memory",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return errors.Wrapf(err, "failed to execute pragma: %s", pragma)
		}
	}

	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)

	var journalMode string
	if err := db.GetContext(ctx, &journalMode, "PRAGMA journal_mode"); err != nil {
		return errors.Wrap(err, "failed to query journal mode")
	}
	if strings.ToLower(journalMode) != "wal" {
		return errors.Errorf("WAL mode not enabled. Current mode: %s", journalMode)
	}

	return nil
}
