// Package companyscan embeds the database migrations applied by the migrate
// command.
package companyscan

import "embed"

// Migrations holds the goose SQL migrations under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
