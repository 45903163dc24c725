package migrations

import "embed"

// FS contains embedded SQLite migrations for the fraction table store.
//
//go:embed *.sql
var FS embed.FS
