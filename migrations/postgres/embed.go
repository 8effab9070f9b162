// Package migrations embebe las migraciones SQL (formato goose) del esquema
// principal.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
