// Package migrations holds the export schema migrations, registered from init functions.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
