// Package postgres provides the PostgreSQL SQL dialect definition.
// This package is pure Go with no database driver dependencies; the
// pgx-backed inspector lives in pkg/inspectors/postgres.
package postgres

import (
	"github.com/fernwood-labs/schemacat/pkg/core"
	"github.com/fernwood-labs/schemacat/pkg/dialect"
)

func init() {
	dialect.Register(Postgres)
}

// Config is the PostgreSQL dialect configuration, pure data.
var Config = &core.DialectConfig{
	Name:          "postgres",
	DefaultSchema: "public",
	Placeholder:   core.PlaceholderDollar,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormLowercase, // Postgres folds unquoted to lowercase
	},
	DataTypes: postgresTypes,
}

var postgresTypes = []string{
	"bigint",
	"bigserial",
	"bit",
	"bit varying",
	"bool",
	"boolean",
	"box",
	"bytea",
	"char",
	"character",
	"character varying",
	"cidr",
	"circle",
	"date",
	"decimal",
	"double precision",
	"float4",
	"float8",
	"inet",
	"int",
	"int2",
	"int4",
	"int8",
	"integer",
	"interval",
	"json",
	"jsonb",
	"line",
	"lseg",
	"macaddr",
	"macaddr8",
	"money",
	"numeric",
	"oid",
	"path",
	"pg_lsn",
	"point",
	"polygon",
	"real",
	"serial",
	"serial2",
	"serial4",
	"serial8",
	"smallint",
	"smallserial",
	"text",
	"time",
	"time with time zone",
	"time without time zone",
	"timestamp",
	"timestamp with time zone",
	"timestamp without time zone",
	"timestamptz",
	"timetz",
	"tsquery",
	"tsvector",
	"uuid",
	"varbit",
	"varchar",
	"xml",
}

// Postgres is the PostgreSQL dialect.
var Postgres = dialect.FromConfig(Config).Build()
