// Package migrations embeds the goose SQL migrations for the catalogue
// schema.
package migrations

import "embed"

// FS holds the *.sql files at its root, ready for db.Migrate.
//
//go:embed *.sql
var FS embed.FS
