// Package sqlite provides the SQLite SQL dialect definition.
//
// SQLite resolves any type name to an affinity instead of rejecting it,
// so the dialect accepts unknown types; the listed names are the
// documented affinity spellings.
package sqlite

import (
	"github.com/fernwood-labs/schemacat/pkg/core"
	"github.com/fernwood-labs/schemacat/pkg/dialect"
)

func init() {
	dialect.Register(SQLite)
}

// Config is the SQLite dialect configuration, pure data.
var Config = &core.DialectConfig{
	Name:          "sqlite",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},
	DataTypes:      sqliteTypes,
	AcceptsAnyType: true,
}

var sqliteTypes = []string{
	"bigint",
	"blob",
	"boolean",
	"char",
	"character",
	"clob",
	"date",
	"datetime",
	"decimal",
	"double",
	"double precision",
	"float",
	"int",
	"int2",
	"int8",
	"integer",
	"mediumint",
	"native character",
	"nchar",
	"numeric",
	"nvarchar",
	"real",
	"smallint",
	"text",
	"tinyint",
	"unsigned big int",
	"varchar",
	"varying character",
}

// SQLite is the SQLite dialect.
var SQLite = dialect.FromConfig(Config).Build()
