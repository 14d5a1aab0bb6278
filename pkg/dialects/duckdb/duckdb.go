// Package duckdb provides the DuckDB SQL dialect definition.
// This package is pure Go with no database driver dependencies; the
// go-duckdb-backed inspector lives in pkg/inspectors/duckdb.
package duckdb

import (
	"github.com/fernwood-labs/schemacat/pkg/core"
	"github.com/fernwood-labs/schemacat/pkg/dialect"
)

func init() {
	dialect.Register(DuckDB)
}

// Config is the DuckDB dialect configuration, pure data.
var Config = &core.DialectConfig{
	Name:          "duckdb",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},
	DataTypes: duckDBTypes,
}

var duckDBTypes = []string{
	"bigint",
	"binary",
	"bit",
	"bitstring",
	"blob",
	"bool",
	"boolean",
	"bytea",
	"char",
	"date",
	"datetime",
	"dec",
	"decimal",
	"double",
	"enum",
	"float",
	"float4",
	"float8",
	"hugeint",
	"int",
	"int1",
	"int2",
	"int4",
	"int8",
	"integer",
	"interval",
	"json",
	"list",
	"logical",
	"long",
	"map",
	"numeric",
	"real",
	"short",
	"signed",
	"smallint",
	"string",
	"struct",
	"text",
	"time",
	"timestamp",
	"timestamp with time zone",
	"timestamptz",
	"tinyint",
	"ubigint",
	"uhugeint",
	"uinteger",
	"union",
	"usmallint",
	"utinyint",
	"uuid",
	"varbinary",
	"varchar",
}

// DuckDB is the DuckDB dialect.
var DuckDB = dialect.FromConfig(Config).Build()
