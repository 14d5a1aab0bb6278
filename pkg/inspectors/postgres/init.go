// Package postgres provides a PostgreSQL schema inspector.
//
// This file registers the PostgreSQL inspector with the inspect
// registry. Import this package with a blank identifier to register
// the inspector:
//
//	import _ "github.com/fernwood-labs/schemacat/pkg/inspectors/postgres"
package postgres

import (
	"log/slog"

	"github.com/fernwood-labs/schemacat/pkg/inspect"

	// Register the pgx database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
)

func init() {
	inspect.Register("postgres", func(logger *slog.Logger) inspect.Inspector { return New(logger) })
}
