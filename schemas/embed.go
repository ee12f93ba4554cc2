// Package schemas provides the embedded SQL migrations of the key-value store.
package schemas

import "embed"

// Migrations holds the migration files, applied in file name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
