// Package migrations embeds the SQL migration files applied by goose when
// the Postgres session store is selected.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
