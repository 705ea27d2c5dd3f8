// Package schemas provides embedded SQL migration files.
package schemas

import "embed"

// Migrations contains the answer log schema, applied in file name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
