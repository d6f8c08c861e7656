// Package migrations embeds the goose SQL migrations for the server schema.
// The statements are written to run unchanged on PostgreSQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
