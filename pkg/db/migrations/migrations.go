// Package migrations lists the agentdir schema migrations.
package migrations

import (
	"github.com/summon-ai/agentdir/pkg/db"
)

// All returns every registered migration. New migrations are appended here.
func All() []db.Migration {
	return []db.Migration{
		Migration20261019120000CreateLocalStorage(),
	}
}
