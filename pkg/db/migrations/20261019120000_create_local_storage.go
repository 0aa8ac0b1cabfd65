package migrations

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/summon-ai/agentdir/pkg/db"
)

// Migration20261019120000CreateLocalStorage creates the key-value table used
// as the viewer's local store.
func Migration20261019120000CreateLocalStorage() db.Migration {
	return db.Migration{
		Version:     20261019120000,
		Description: "Create local_storage table",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS local_storage (
					key TEXT PRIMARY KEY,
					value TEXT NOT NULL,
					updated_at DATETIME NOT NULL
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create local_storage table")
			}
			return nil
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP TABLE IF EXISTS local_storage")
			return errors.Wrap(err, "failed to drop local_storage table")
		},
	}
}
