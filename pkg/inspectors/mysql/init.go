// Package mysql provides a MySQL schema inspector.
//
// This file registers the MySQL inspector with the inspect registry.
// Import this package with a blank identifier to register the
// inspector:
//
//	import _ "github.com/fernwood-labs/schemacat/pkg/inspectors/mysql"
package mysql

import (
	"log/slog"

	"github.com/fernwood-labs/schemacat/pkg/inspect"

	// Register the mysql database/sql driver
	_ "github.com/go-sql-driver/mysql"
)

func init() {
	inspect.Register("mysql", func(logger *slog.Logger) inspect.Inspector { return New(logger) })
}
