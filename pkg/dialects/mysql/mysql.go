// Package mysql provides the MySQL SQL dialect definition.
//
// MySQL quotes identifiers with backticks and carries inline column
// attributes (AUTO_INCREMENT, UNSIGNED) the catalog accepts but does not
// model; those are registered as dynamic keywords and ignorable options.
package mysql

import (
	"github.com/fernwood-labs/schemacat/pkg/core"
	"github.com/fernwood-labs/schemacat/pkg/dialect"
	"github.com/fernwood-labs/schemacat/pkg/token"
)

func init() {
	dialect.Register(MySQL)
}

// Dynamic keyword tokens for MySQL column attributes.
var (
	TokenAutoIncrement = token.Register("AUTO_INCREMENT")
	TokenUnsigned      = token.Register("UNSIGNED")
	TokenZerofill      = token.Register("ZEROFILL")
)

// Config is the MySQL dialect configuration, pure data.
var Config = &core.DialectConfig{
	Name:          "mysql",
	DefaultSchema: "",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: core.NormCaseInsensitive,
	},
	DataTypes:              mysqlTypes,
	TypeModifiers:          []string{"unsigned", "signed", "zerofill"},
	IgnorableColumnOptions: []string{"auto_increment"},
}

var mysqlTypes = []string{
	"bigint",
	"binary",
	"bit",
	"blob",
	"bool",
	"boolean",
	"char",
	"date",
	"datetime",
	"dec",
	"decimal",
	"double",
	"double precision",
	"enum",
	"fixed",
	"float",
	"int",
	"integer",
	"json",
	"longblob",
	"longtext",
	"mediumblob",
	"mediumint",
	"mediumtext",
	"numeric",
	"real",
	"set",
	"smallint",
	"text",
	"time",
	"timestamp",
	"tinyblob",
	"tinyint",
	"tinytext",
	"varbinary",
	"varchar",
	"year",
}

// MySQL is the MySQL dialect.
var MySQL = dialect.FromConfig(Config).
	AddKeyword("AUTO_INCREMENT", TokenAutoIncrement).
	AddKeyword("UNSIGNED", TokenUnsigned).
	AddKeyword("ZEROFILL", TokenZerofill).
	Build()
