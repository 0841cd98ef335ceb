// Package db holds the PostgreSQL schema applied at start-up by pg.Migrate.
package db

import "embed"

// Migrations contains the goose SQL migrations, rooted at "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that goose reads from.
const MigrationsDir = "migrations"
