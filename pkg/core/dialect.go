package core

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data — no handler functions.
//
// Runtime behavior (keyword registration, name normalization helpers)
// lives in pkg/dialect.Dialect, which embeds this config.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "postgres", "duckdb")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// DefaultSchema is the schema unqualified table names land in
	// ("public" for Postgres, "main" for DuckDB/SQLite)
	DefaultSchema string

	// Placeholder defines how query parameters are formatted.
	// Used by the inspect layer's metadata queries.
	Placeholder PlaceholderStyle

	// DataTypes lists the built-in type names (lowercase) that column
	// type references resolve against
	DataTypes []string

	// AcceptsAnyType disables unknown-type errors entirely. SQLite gives
	// every type name an affinity instead of rejecting it.
	AcceptsAnyType bool

	// TypeModifiers lists bare words (lowercase) that extend a type name,
	// such as MySQL's "unsigned" and "zerofill"
	TypeModifiers []string

	// IgnorableColumnOptions lists inline column keywords (lowercase) the
	// dialect allows but the catalog does not model, such as MySQL's
	// "auto_increment"
	IgnorableColumnOptions []string
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Snowflake, Oracle).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly.
	NormCaseSensitive
	// NormCaseInsensitive preserves case but compares case-insensitively (MySQL, DuckDB, SQLite).
	NormCaseInsensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}
