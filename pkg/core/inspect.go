package core

// InspectConfig holds configuration for connecting to a database whose
// schema is to be read into a catalog.
type InspectConfig struct {
	// Type selects the registered inspector ("postgres", "mysql", "sqlite", "duckdb")
	Type string

	// Path is the database file for embedded engines (SQLite, DuckDB).
	// ":memory:" opens an in-memory database.
	Path string

	// Network connection settings for server engines
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// Schema restricts introspection to one schema; empty inspects
	// every schema the engine reports
	Schema string

	// Options carries driver-specific DSN parameters
	Options map[string]string
}
