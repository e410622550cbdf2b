// Package migrations embeds the SQL schema migrations so the server,
// the migrate CLI and integration tests apply the same files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
