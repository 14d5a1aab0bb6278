// Package sqlite provides a SQLite schema inspector.
//
// This file registers the SQLite inspector with the inspect registry.
// Import this package with a blank identifier to register the
// inspector:
//
//	import _ "github.com/fernwood-labs/schemacat/pkg/inspectors/sqlite"
package sqlite

import (
	"log/slog"

	"github.com/fernwood-labs/schemacat/pkg/inspect"

	// Register the sqlite database/sql driver
	_ "modernc.org/sqlite"
)

func init() {
	inspect.Register("sqlite", func(logger *slog.Logger) inspect.Inspector { return New(logger) })
}
