// Package migrations embeds the SQLite schema for the storage backend.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
