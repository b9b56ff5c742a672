package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the Postgres schema; each file in this package registers one step.
var Migrations = migrate.NewMigrations()
