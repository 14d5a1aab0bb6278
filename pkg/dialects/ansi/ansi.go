// Package ansi provides the base ANSI SQL dialect.
//
// This dialect serves as the fallback for DDL sources that do not declare a
// vendor dialect: standard double-quoted identifiers folded to lowercase and
// the ANSI data type names.
package ansi

import (
	"github.com/fernwood-labs/schemacat/pkg/core"
	"github.com/fernwood-labs/schemacat/pkg/dialect"
)

func init() {
	dialect.Register(ANSI)
}

// Config is the ANSI dialect configuration, pure data.
var Config = &core.DialectConfig{
	Name:          "ansi",
	DefaultSchema: "",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormLowercase,
	},
	DataTypes: ansiTypes,
}

// ansiTypes lists the standard type names, including the multi-word forms
// the parser assembles ("double precision", "timestamp with time zone").
var ansiTypes = []string{
	"bigint",
	"binary",
	"bit",
	"blob",
	"boolean",
	"char",
	"character",
	"character varying",
	"clob",
	"date",
	"dec",
	"decimal",
	"double precision",
	"float",
	"int",
	"integer",
	"interval",
	"national character",
	"national character varying",
	"nchar",
	"numeric",
	"nvarchar",
	"real",
	"smallint",
	"text",
	"time",
	"time with time zone",
	"time without time zone",
	"timestamp",
	"timestamp with time zone",
	"timestamp without time zone",
	"varbinary",
	"varchar",
}

// ANSI is the base ANSI SQL dialect.
var ANSI = dialect.FromConfig(Config).Build()
