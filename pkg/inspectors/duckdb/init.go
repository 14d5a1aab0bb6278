// Package duckdb provides a DuckDB schema inspector.
//
// This file registers the DuckDB inspector with the inspect registry.
// Import this package with a blank identifier to register the
// inspector:
//
//	import _ "github.com/fernwood-labs/schemacat/pkg/inspectors/duckdb"
package duckdb

import (
	"log/slog"

	"github.com/fernwood-labs/schemacat/pkg/inspect"

	// Register the duckdb database/sql driver
	_ "github.com/marcboeker/go-duckdb"
)

func init() {
	inspect.Register("duckdb", func(logger *slog.Logger) inspect.Inspector { return New(logger) })
}
