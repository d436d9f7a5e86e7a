// Package migrations embeds the goose SQL migrations for the gate service.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
