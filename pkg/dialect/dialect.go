// Package dialect provides SQL dialect configuration for DDL parsing.
//
// This package contains the public contract for dialect definitions used by
// the parser, the catalog builder, and the inspect layer. Concrete dialect
// implementations are registered from pkg/dialects/*/ packages.
package dialect

import (
	"strconv"
	"strings"

	"github.com/fernwood-labs/schemacat/pkg/core"
	"github.com/fernwood-labs/schemacat/pkg/token"
)

// Dialect is the runtime dialect object: the pure-data configuration from
// pkg/core plus lookup structures derived from it.
type Dialect struct {
	*core.DialectConfig

	dataTypes        map[string]struct{}
	typeModifiers    map[string]struct{}
	ignorableOptions map[string]struct{}
	dynamicKw        map[string]token.TokenType
}

// NormalizeName returns the stored form of an unquoted identifier.
// Case-insensitive dialects preserve the declared spelling; comparisons
// go through FoldKey instead.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase:
		return strings.ToLower(name)
	default: // NormCaseSensitive, NormCaseInsensitive
		return name
	}
}

// FoldKey returns the catalog lookup key for an identifier.
// quoted identifiers keep their verbatim spelling except under
// NormCaseInsensitive, where every comparison folds.
func (d *Dialect) FoldKey(name string, quoted bool) string {
	if d.Identifiers.Normalization == core.NormCaseInsensitive {
		return strings.ToLower(name)
	}
	if quoted {
		return name
	}
	return d.NormalizeName(name)
}

// LookupKeyword resolves an identifier to its keyword token, consulting
// dialect-registered keywords before the builtin table.
func (d *Dialect) LookupKeyword(ident string) token.TokenType {
	lower := strings.ToLower(ident)
	if t, ok := d.dynamicKw[lower]; ok {
		return t
	}
	return token.LookupIdent(lower)
}

// IsDataType returns true if the given type name (lowercase, full multi-word
// form such as "double precision") is built into the dialect.
func (d *Dialect) IsDataType(name string) bool {
	_, ok := d.dataTypes[strings.ToLower(name)]
	return ok
}

// IsTypeModifier returns true for bare words that extend a type name,
// such as MySQL's UNSIGNED.
func (d *Dialect) IsTypeModifier(word string) bool {
	_, ok := d.typeModifiers[strings.ToLower(word)]
	return ok
}

// IsIgnorableColumnOption returns true for inline column keywords the
// dialect accepts but the catalog does not model (AUTO_INCREMENT).
func (d *Dialect) IsIgnorableColumnOption(word string) bool {
	_, ok := d.ignorableOptions[strings.ToLower(word)]
	return ok
}

// DataTypes returns all built-in data type names (lowercase, unsorted copy).
func (d *Dialect) DataTypes() []string {
	types := make([]string, 0, len(d.dataTypes))
	for t := range d.dataTypes {
		types = append(types, t)
	}
	return types
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	lower := strings.ToLower(word)
	if _, ok := d.dynamicKw[lower]; ok {
		return true
	}
	return token.LookupIdent(lower) != token.IDENT
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., " -> "")
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteIdentifierIfNeeded quotes an identifier only if it's a reserved word.
func (d *Dialect) QuoteIdentifierIfNeeded(name string) string {
	if d.IsReservedWord(name) {
		return d.QuoteIdentifier(name)
	}
	return name
}

// ---------- Builder ----------

// Builder constructs a Dialect using a fluent API.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a builder for a dialect with the given name.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			DialectConfig: &core.DialectConfig{
				Name: name,
				Identifiers: core.IdentifierConfig{
					Quote:    `"`,
					QuoteEnd: `"`,
					Escape:   `""`,
				},
			},
			dataTypes:        make(map[string]struct{}),
			typeModifiers:    make(map[string]struct{}),
			ignorableOptions: make(map[string]struct{}),
			dynamicKw:        make(map[string]token.TokenType),
		},
	}
}

// FromConfig creates a builder preloaded from a pure-data config.
// The config's string lists are folded into the lookup tables; AddKeyword
// calls may still extend the builder afterwards.
func FromConfig(cfg *core.DialectConfig) *Builder {
	b := NewDialect(cfg.Name)
	copied := *cfg
	b.dialect.DialectConfig = &copied
	b.WithDataTypes(cfg.DataTypes...)
	b.WithTypeModifiers(cfg.TypeModifiers...)
	b.WithIgnorableColumnOptions(cfg.IgnorableColumnOptions...)
	return b
}

// Identifiers sets the identifier quoting and normalization rules.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.DialectConfig.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// DefaultSchema sets the schema unqualified names resolve into.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.dialect.DialectConfig.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets the parameter placeholder style.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.dialect.DialectConfig.Placeholder = style
	return b
}

// WithDataTypes adds built-in data type names.
func (b *Builder) WithDataTypes(types ...string) *Builder {
	for _, t := range types {
		b.dialect.dataTypes[strings.ToLower(t)] = struct{}{}
	}
	return b
}

// WithTypeModifiers adds bare type-extending words.
func (b *Builder) WithTypeModifiers(words ...string) *Builder {
	for _, w := range words {
		b.dialect.typeModifiers[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// WithIgnorableColumnOptions adds inline column keywords to accept and drop.
func (b *Builder) WithIgnorableColumnOptions(words ...string) *Builder {
	for _, w := range words {
		b.dialect.ignorableOptions[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// AddKeyword registers a dynamic keyword for the lexer.
func (b *Builder) AddKeyword(name string, t token.TokenType) *Builder {
	b.dialect.dynamicKw[strings.ToLower(name)] = t
	return b
}

// Build finalizes and returns the dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
