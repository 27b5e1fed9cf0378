// Package migrations embeds the versioned PostgreSQL schema so the migrate
// command and the server run the same files without a path on disk.
package migrations

import "embed"

// FS holds the NNNNNN_name.{up,down}.sql pairs read by golang-migrate.
//
//go:embed *.sql
var FS embed.FS
