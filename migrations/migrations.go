// Package migrations embeds the marketplace schema migrations.
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS
