package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/summon-ai/agentdir/pkg/db"
	"github.com/summon-ai/agentdir/pkg/db/migrations"
	"github.com/summon-ai/agentdir/pkg/localstore"
	"github.com/summon-ai/agentdir/pkg/presenter"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management commands",
	Long:  `Commands for managing the agentdir SQLite database behind the sqlite local store.`,
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database migration status",
	Long:  `Shows the current database migration status, including applied and pending migrations.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		path, err := databasePath(appConfig)
		if err != nil {
			return err
		}
		conn, err := db.Open(ctx, path)
		if err != nil {
			return errors.Wrap(err, "failed to open database")
		}
		defer conn.Close()

		statuses, err := db.NewMigrationRunner(conn).Status(ctx, migrations.All())
		if err != nil {
			return errors.Wrap(err, "failed to get migration status")
		}

		presenter.Section("Database Migration Status")
		presenter.Field("database", path)

		applied := 0
		for _, s := range statuses {
			mark := "[ ]"
			if s.Applied {
				mark = "[✓]"
				applied++
			}
			presenter.Info(fmt.Sprintf("%s %d - %s", mark, s.Version, s.Description))
		}
		presenter.Info(fmt.Sprintf("\nApplied: %d/%d migrations", applied, len(statuses)))
		return nil
	},
}

var dbRollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Rollback the last database migration",
	Long:  `Rolls back the most recently applied database migration. Useful for testing or downgrading agentdir.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		path, err := databasePath(appConfig)
		if err != nil {
			return err
		}
		conn, err := db.Open(ctx, path)
		if err != nil {
			return errors.Wrap(err, "failed to open database")
		}
		defer conn.Close()

		reverted, err := rollback(ctx, conn)
		if err != nil {
			return err
		}
		if reverted == nil {
			presenter.Warning("No migrations to rollback")
			return nil
		}
		presenter.Success(fmt.Sprintf("Successfully rolled back migration %d: %s", reverted.Version, reverted.Description))
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbRollbackCmd)
}

func rollback(ctx context.Context, conn *sqlx.DB) (*db.Migration, error) {
	reverted, err := db.NewMigrationRunner(conn).Rollback(ctx, migrations.All())
	if err != nil {
		return nil, errors.Wrap(err, "failed to rollback migration")
	}
	return reverted, nil
}

// databasePath is the configured sqlite store path or the default database.
func databasePath(app *AppConfig) (string, error) {
	if (app.Store.Backend == "" || app.Store.Backend == localstore.BackendSQLite) && app.Store.Path != "" {
		return app.Store.Path, nil
	}
	return db.DefaultDBPath()
}
