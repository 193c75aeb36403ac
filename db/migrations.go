// Package db embeds the PostgreSQL schema migrations.
package db

import "embed"

// Migrations holds every file under migrations/, read by the
// embed_migrations build of opsadminctl.
//
//go:embed migrations/*.sql
var Migrations embed.FS
