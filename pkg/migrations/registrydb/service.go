// Package registrydb holds all the migrations for the claims registry database
package registrydb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the claims registry database
var Migrations = migrate.NewMigrations()
