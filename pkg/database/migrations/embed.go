// Package migrations embeds the schema and seed files for both store backends.
package migrations

import "embed"

// Postgres holds tern migrations (NNN_name.sql).
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds versioned migrations (NNN_name.up.sql).
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Seed holds the optional initial movie list, one file per backend.
//
//go:embed seed/*.sql
var Seed embed.FS
