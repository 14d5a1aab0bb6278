// Package duckdb provides a DuckDB schema inspector.
//
// DuckDB reports each table constraint as complete clause text through
// the duckdb_constraints() function; those clauses are carried verbatim
// instead of being decomposed. ART indexes and enum types are not
// inspected.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fernwood-labs/schemacat/pkg/core"
	"github.com/fernwood-labs/schemacat/pkg/dialect"
	ddialect "github.com/fernwood-labs/schemacat/pkg/dialects/duckdb"
	"github.com/fernwood-labs/schemacat/pkg/inspect"
)

// Inspector reads schema metadata from DuckDB.
type Inspector struct {
	inspect.BaseInspector
}

// New creates a new DuckDB inspector instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Inspector{
		BaseInspector: inspect.BaseInspector{Logger: logger},
	}
}

// Dialect returns the DuckDB dialect.
func (i *Inspector) Dialect() *dialect.Dialect {
	return ddialect.DuckDB
}

// Connect opens the DuckDB database at cfg.Path.
// Use ":memory:" as the path for an in-memory database.
func (i *Inspector) Connect(ctx context.Context, cfg core.InspectConfig) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	i.Logger.Debug("connecting to duckdb", slog.String("path", path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	i.DB = db
	i.Cfg = cfg
	return nil
}

// Schemas lists user schemas of the connected database.
func (i *Inspector) Schemas(ctx context.Context) ([]string, error) {
	if i.DB == nil {
		return nil, inspect.ErrNotConnected
	}

	query := `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE catalog_name = current_database()
		  AND schema_name NOT IN ('information_schema', 'pg_catalog')
		ORDER BY schema_name
	`
	return i.QueryStrings(ctx, query)
}

// InspectSchema reads one schema's tables and constraints.
func (i *Inspector) InspectSchema(ctx context.Context, schema string) (*inspect.SchemaInfo, error) {
	if i.DB == nil {
		return nil, inspect.ErrNotConnected
	}

	info := &inspect.SchemaInfo{Name: schema}

	tablesQuery := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	names, err := i.QueryStrings(ctx, tablesQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("listing tables in %s: %w", schema, err)
	}

	for _, name := range names {
		t, err := i.inspectTable(ctx, schema, name)
		if err != nil {
			return nil, fmt.Errorf("inspecting table %s.%s: %w", schema, name, err)
		}
		info.Tables = append(info.Tables, *t)
	}
	return info, nil
}

func (i *Inspector) inspectTable(ctx context.Context, schema, table string) (*inspect.TableInfo, error) {
	t := &inspect.TableInfo{Schema: schema, Name: table}

	var err error
	if t.Columns, err = i.tableColumns(ctx, schema, table); err != nil {
		return nil, err
	}
	if t.Constraints, err = i.tableConstraints(ctx, schema, table); err != nil {
		return nil, err
	}
	return t, nil
}

// tableColumns reads column definitions. DuckDB's data_type text
// includes argument lists, DECIMAL(18,3) for example.
func (i *Inspector) tableColumns(ctx context.Context, schema, table string) ([]inspect.ColumnInfo, error) {
	query := `
		SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`
	rows, err := i.DB.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cols []inspect.ColumnInfo
	for rows.Next() {
		var col inspect.ColumnInfo
		var nullable string
		var def sql.NullString
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &def); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.NotNull = nullable == "NO"
		col.Default = def.String
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	return cols, nil
}

// tableConstraints reads constraint clauses verbatim. NOT NULL rows
// duplicate column nullability and are dropped.
func (i *Inspector) tableConstraints(ctx context.Context, schema, table string) ([]inspect.ConstraintInfo, error) {
	query := `
		SELECT constraint_type, constraint_text
		FROM duckdb_constraints()
		WHERE database_name = current_database()
		  AND schema_name = ? AND table_name = ?
		  AND constraint_type <> 'NOT NULL'
		ORDER BY constraint_index
	`
	rows, err := i.DB.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query constraints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cons []inspect.ConstraintInfo
	for rows.Next() {
		var con inspect.ConstraintInfo
		if err := rows.Scan(&con.Type, &con.Raw); err != nil {
			return nil, fmt.Errorf("failed to scan constraint: %w", err)
		}
		cons = append(cons, con)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating constraints: %w", err)
	}
	return cons, nil
}

// Ensure Inspector implements inspect.Inspector interface
var _ inspect.Inspector = (*Inspector)(nil)
