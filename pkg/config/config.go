// Package config loads catalog build settings from YAML files and
// environment variables.
package config

import (
	"fmt"

	"github.com/fernwood-labs/schemacat/pkg/catalog"
	"github.com/fernwood-labs/schemacat/pkg/core"
	"github.com/fernwood-labs/schemacat/pkg/dialect"
	"github.com/fernwood-labs/schemacat/pkg/inspect"

	// Register the bundled dialect definitions so configured names
	// resolve. Inspectors carry database drivers and stay opt-in.
	_ "github.com/fernwood-labs/schemacat/pkg/dialects/ansi"
	_ "github.com/fernwood-labs/schemacat/pkg/dialects/duckdb"
	_ "github.com/fernwood-labs/schemacat/pkg/dialects/mysql"
	_ "github.com/fernwood-labs/schemacat/pkg/dialects/postgres"
	_ "github.com/fernwood-labs/schemacat/pkg/dialects/sqlite"
)

// DefaultDialect is assumed when no dialect is configured.
const DefaultDialect = "ansi"

// Config holds the settings a catalog is built with.
type Config struct {
	// Dialect names the SQL dialect (ansi, postgres, mysql, sqlite,
	// duckdb).
	Dialect string `koanf:"dialect"`

	// DefaultSchema overrides the dialect's default schema for
	// unqualified names.
	DefaultSchema string `koanf:"default_schema"`

	// UnknownStatements selects handling for statements outside the
	// DDL grammar: "skip" or "reject".
	UnknownStatements catalog.UnknownStatementPolicy `koanf:"unknown_statements"`

	// CascadeDrops treats every DROP as if it carried CASCADE.
	CascadeDrops bool `koanf:"cascade_drops"`

	// DeferForeignKeys postpones reference resolution to Finalize so
	// inputs may declare tables in any order.
	DeferForeignKeys bool `koanf:"defer_foreign_keys"`

	// Source describes a live database to build the catalog from
	// instead of DDL input.
	Source *SourceConfig `koanf:"source"`
}

// SourceConfig describes a database connection for inspection.
type SourceConfig struct {
	// Type selects the registered inspector (postgres, mysql, sqlite,
	// duckdb).
	Type string `koanf:"type"`

	// Path is the database file for embedded engines; ":memory:"
	// opens an in-memory database.
	Path string `koanf:"path"`

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// Schema restricts inspection to one schema.
	Schema string `koanf:"schema"`

	// Options carries driver-specific connection parameters.
	Options map[string]string `koanf:"options"`
}

// ApplyDefaults fills unset fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Dialect == "" {
		c.Dialect = DefaultDialect
	}
}

// Validate checks that the configuration names known components.
func (c *Config) Validate() error {
	if _, err := dialect.MustGet(c.Dialect); err != nil {
		return err
	}
	switch c.UnknownStatements {
	case catalog.SkipUnknownStatements, catalog.RejectUnknownStatements:
	default:
		return fmt.Errorf("unknown statement policy %d (want skip or reject)", c.UnknownStatements)
	}
	if c.Source != nil && c.Source.Type != "" && !inspect.IsRegistered(c.Source.Type) {
		return &inspect.UnknownInspectorError{Type: c.Source.Type, Available: inspect.ListInspectors()}
	}
	return nil
}

// BuilderOptions resolves the configuration into catalog builder
// options. The logger is left for the caller to attach.
func (c *Config) BuilderOptions() (catalog.Options, error) {
	d, err := dialect.MustGet(c.Dialect)
	if err != nil {
		return catalog.Options{}, err
	}
	return catalog.Options{
		Dialect:           d,
		DefaultSchema:     c.DefaultSchema,
		UnknownStatements: c.UnknownStatements,
		CascadeDrops:      c.CascadeDrops,
		DeferForeignKeys:  c.DeferForeignKeys,
	}, nil
}

// InspectConfig converts the source settings for the inspect package.
func (s *SourceConfig) InspectConfig() core.InspectConfig {
	return core.InspectConfig{
		Type:     s.Type,
		Path:     s.Path,
		Host:     s.Host,
		Port:     s.Port,
		Database: s.Database,
		Username: s.Username,
		Password: s.Password,
		Schema:   s.Schema,
		Options:  s.Options,
	}
}
