package localstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/summon-ai/agentdir/pkg/db"
	"github.com/summon-ai/agentdir/pkg/db/migrations"
	"github.com/summon-ai/agentdir/pkg/logger"
)

const (
	writeAttempts = 3
	writeDelay    = 25 * time.Millisecond
)

// SQLite stores values in the local_storage table of the agentdir database.
type SQLite struct {
	db *sqlx.DB
}

// OpenSQLite opens the database at path, migrating it if needed.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	conn, err := db.OpenAndMigrate(ctx, path, migrations.All())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open local store")
	}
	return &SQLite{db: conn}, nil
}

// NewSQLite wraps an already migrated database.
func NewSQLite(conn *sqlx.DB) *SQLite {
	return &SQLite{db: conn}
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM local_storage WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to read %s", key)
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	return s.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value, time.Now().UTC())
		return errors.Wrapf(err, "failed to write %s", key)
	})
}

func (s *SQLite) List(ctx context.Context, prefix string) ([]Entry, error) {
	var entries []Entry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT key, value FROM local_storage WHERE substr(key, 1, ?) = ? ORDER BY key",
		len(prefix), prefix)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list local storage")
	}
	return entries, nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	return s.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, "DELETE FROM local_storage WHERE key = ?", key)
		return errors.Wrapf(err, "failed to delete %s", key)
	})
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// withRetry retries writes that lost a lock race with another agentdir
// process sharing the database.
func (s *SQLite) withRetry(ctx context.Context, fn func() error) error {
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(writeAttempts),
		retry.Delay(writeDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isBusy),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).WithField("attempt", n+1).Debug("retrying local store write")
		}),
	)
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
