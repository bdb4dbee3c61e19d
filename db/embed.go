// Package db embeds the SQL migrations for the wines catalog.
package db

import "embed"

// Migrations holds the golang-migrate files under migrations/
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the files
const MigrationsDir = "migrations"
