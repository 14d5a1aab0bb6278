// Package postgres provides a PostgreSQL schema inspector.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fernwood-labs/schemacat/pkg/core"
	"github.com/fernwood-labs/schemacat/pkg/dialect"
	pgdialect "github.com/fernwood-labs/schemacat/pkg/dialects/postgres"
	"github.com/fernwood-labs/schemacat/pkg/inspect"
)

// Inspector reads schema metadata from PostgreSQL system catalogs.
type Inspector struct {
	inspect.BaseInspector
}

// New creates a new PostgreSQL inspector instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Inspector{
		BaseInspector: inspect.BaseInspector{Logger: logger},
	}
}

// Dialect returns the PostgreSQL dialect.
func (i *Inspector) Dialect() *dialect.Dialect {
	return pgdialect.Postgres
}

// Connect establishes a connection to PostgreSQL.
func (i *Inspector) Connect(ctx context.Context, cfg core.InspectConfig) error {
	dsn := buildPostgresDSN(cfg)

	i.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	i.DB = db
	i.Cfg = cfg
	return nil
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg core.InspectConfig) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}

	return dsn
}

// Schemas lists user schemas, excluding PostgreSQL's own.
func (i *Inspector) Schemas(ctx context.Context) ([]string, error) {
	if i.DB == nil {
		return nil, inspect.ErrNotConnected
	}

	query := `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT LIKE 'pg_%'
		  AND schema_name <> 'information_schema'
		ORDER BY schema_name
	`
	return i.QueryStrings(ctx, query)
}

// InspectSchema reads one schema's enum types, tables, constraints,
// and indexes.
func (i *Inspector) InspectSchema(ctx context.Context, schema string) (*inspect.SchemaInfo, error) {
	if i.DB == nil {
		return nil, inspect.ErrNotConnected
	}

	info := &inspect.SchemaInfo{Name: schema}

	types, err := i.enumTypes(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("inspecting types in %s: %w", schema, err)
	}
	info.Types = types

	tablesQuery := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
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

// enumTypes reads enum type definitions with labels in declared order.
func (i *Inspector) enumTypes(ctx context.Context, schema string) ([]inspect.TypeInfo, error) {
	query := `
		SELECT t.typname, e.enumlabel
		FROM pg_catalog.pg_type t
		JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
		JOIN pg_catalog.pg_enum e ON e.enumtypid = t.oid
		WHERE n.nspname = $1
		ORDER BY t.typname, e.enumsortorder
	`
	rows, err := i.DB.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query enum types: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var types []inspect.TypeInfo
	byName := map[string]int{}
	for rows.Next() {
		var name, label string
		if err := rows.Scan(&name, &label); err != nil {
			return nil, fmt.Errorf("failed to scan enum type: %w", err)
		}
		idx, ok := byName[name]
		if !ok {
			idx = len(types)
			byName[name] = idx
			types = append(types, inspect.TypeInfo{Name: name})
		}
		types[idx].Values = append(types[idx].Values, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enum types: %w", err)
	}
	return types, nil
}

func (i *Inspector) inspectTable(ctx context.Context, schema, table string) (*inspect.TableInfo, error) {
	t := &inspect.TableInfo{Schema: schema, Name: table}

	var err error
	if t.Columns, err = i.tableColumns(ctx, schema, table); err != nil {
		return nil, err
	}
	if t.Constraints, err = i.keyConstraints(ctx, schema, table); err != nil {
		return nil, err
	}
	checks, err := i.checkConstraints(ctx, schema, table)
	if err != nil {
		return nil, err
	}
	t.Constraints = append(t.Constraints, checks...)
	fks, err := i.foreignKeys(ctx, schema, table)
	if err != nil {
		return nil, err
	}
	t.Constraints = append(t.Constraints, fks...)
	if t.Indexes, err = i.tableIndexes(ctx, schema, table); err != nil {
		return nil, err
	}
	return t, nil
}

// tableColumns reads column definitions from pg_attribute. format_type
// renders the full type text (length, precision, array suffix) and
// qualifies types outside the search path with their schema.
func (i *Inspector) tableColumns(ctx context.Context, schema, table string) ([]inspect.ColumnInfo, error) {
	query := `
		SELECT
			a.attname,
			pg_catalog.format_type(a.atttypid, a.atttypmod),
			a.attnotnull,
			pg_catalog.pg_get_expr(ad.adbin, ad.adrelid)
		FROM pg_catalog.pg_attribute a
		JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_catalog.pg_attrdef ad ON ad.adrelid = a.attrelid AND ad.adnum = a.attnum
		WHERE n.nspname = $1 AND c.relname = $2
		  AND a.attnum > 0 AND NOT a.attisdropped
		ORDER BY a.attnum
	`
	rows, err := i.DB.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cols []inspect.ColumnInfo
	for rows.Next() {
		var col inspect.ColumnInfo
		var def sql.NullString
		if err := rows.Scan(&col.Name, &col.Type, &col.NotNull, &def); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Default = def.String
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	return cols, nil
}

// keyConstraints reads primary key and unique constraints with their
// columns in key order.
func (i *Inspector) keyConstraints(ctx context.Context, schema, table string) ([]inspect.ConstraintInfo, error) {
	query := `
		SELECT tc.constraint_name, tc.constraint_type, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_schema = tc.constraint_schema
		 AND kcu.constraint_name = tc.constraint_name
		WHERE tc.table_schema = $1 AND tc.table_name = $2
		  AND tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE')
		ORDER BY tc.constraint_name, kcu.ordinal_position
	`
	rows, err := i.DB.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query key constraints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cons []inspect.ConstraintInfo
	byName := map[string]int{}
	for rows.Next() {
		var name, typ, column string
		if err := rows.Scan(&name, &typ, &column); err != nil {
			return nil, fmt.Errorf("failed to scan key constraint: %w", err)
		}
		idx, ok := byName[name]
		if !ok {
			idx = len(cons)
			byName[name] = idx
			cons = append(cons, inspect.ConstraintInfo{Name: name, Type: typ})
		}
		cons[idx].Columns = append(cons[idx].Columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating key constraints: %w", err)
	}
	return cons, nil
}

// checkConstraints reads check constraints. PostgreSQL surfaces column
// NOT NULL markers as synthetic rows named *_not_null; attnotnull
// already covers those, so they are filtered out.
func (i *Inspector) checkConstraints(ctx context.Context, schema, table string) ([]inspect.ConstraintInfo, error) {
	query := `
		SELECT cc.constraint_name, cc.check_clause
		FROM information_schema.table_constraints tc
		JOIN information_schema.check_constraints cc
		  ON cc.constraint_schema = tc.constraint_schema
		 AND cc.constraint_name = tc.constraint_name
		WHERE tc.table_schema = $1 AND tc.table_name = $2
		  AND tc.constraint_type = 'CHECK'
		  AND cc.constraint_name NOT LIKE '%not_null'
		ORDER BY cc.constraint_name
	`
	rows, err := i.DB.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query check constraints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cons []inspect.ConstraintInfo
	for rows.Next() {
		var con inspect.ConstraintInfo
		con.Type = inspect.ConstraintCheck
		if err := rows.Scan(&con.Name, &con.Expr); err != nil {
			return nil, fmt.Errorf("failed to scan check constraint: %w", err)
		}
		cons = append(cons, con)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check constraints: %w", err)
	}
	return cons, nil
}

// foreignKeys reads foreign key constraints. Referenced columns come
// from the target constraint's key columns matched by
// position_in_unique_constraint, which preserves pair order.
func (i *Inspector) foreignKeys(ctx context.Context, schema, table string) ([]inspect.ConstraintInfo, error) {
	query := `
		SELECT
			rc.constraint_name,
			kcu.column_name,
			rkcu.table_schema,
			rkcu.table_name,
			rkcu.column_name,
			rc.delete_rule,
			rc.update_rule
		FROM information_schema.referential_constraints rc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_schema = rc.constraint_schema
		 AND kcu.constraint_name = rc.constraint_name
		JOIN information_schema.key_column_usage rkcu
		  ON rkcu.constraint_schema = rc.unique_constraint_schema
		 AND rkcu.constraint_name = rc.unique_constraint_name
		 AND rkcu.ordinal_position = kcu.position_in_unique_constraint
		WHERE rc.constraint_schema = $1 AND kcu.table_name = $2
		ORDER BY rc.constraint_name, kcu.ordinal_position
	`
	rows, err := i.DB.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cons []inspect.ConstraintInfo
	byName := map[string]int{}
	for rows.Next() {
		var name, column, refSchema, refTable, refColumn, onDelete, onUpdate string
		if err := rows.Scan(&name, &column, &refSchema, &refTable, &refColumn, &onDelete, &onUpdate); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		idx, ok := byName[name]
		if !ok {
			idx = len(cons)
			byName[name] = idx
			cons = append(cons, inspect.ConstraintInfo{
				Name:      name,
				Type:      inspect.ConstraintForeignKey,
				RefSchema: refSchema,
				RefTable:  refTable,
				OnDelete:  onDelete,
				OnUpdate:  onUpdate,
			})
		}
		cons[idx].Columns = append(cons[idx].Columns, column)
		cons[idx].RefColumns = append(cons[idx].RefColumns, refColumn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foreign keys: %w", err)
	}
	return cons, nil
}

// tableIndexes reads plain column indexes. Primary key indexes are
// excluded here; unique constraint backing indexes share the
// constraint's name and are dropped during rendering. Expression and
// partial indexes have no column-list equivalent and are skipped.
func (i *Inspector) tableIndexes(ctx context.Context, schema, table string) ([]inspect.IndexInfo, error) {
	query := `
		SELECT ic.relname, a.attname, ix.indisunique
		FROM pg_catalog.pg_index ix
		JOIN pg_catalog.pg_class c ON c.oid = ix.indrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_catalog.pg_class ic ON ic.oid = ix.indexrelid
		CROSS JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord)
		JOIN pg_catalog.pg_attribute a ON a.attrelid = c.oid AND a.attnum = k.attnum
		WHERE n.nspname = $1 AND c.relname = $2
		  AND NOT ix.indisprimary
		  AND ix.indexprs IS NULL AND ix.indpred IS NULL
		ORDER BY ic.relname, k.ord
	`
	rows, err := i.DB.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var indexes []inspect.IndexInfo
	byName := map[string]int{}
	for rows.Next() {
		var name, column string
		var unique bool
		if err := rows.Scan(&name, &column, &unique); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		idx, ok := byName[name]
		if !ok {
			idx = len(indexes)
			byName[name] = idx
			indexes = append(indexes, inspect.IndexInfo{Name: name, Unique: unique})
		}
		indexes[idx].Columns = append(indexes[idx].Columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating indexes: %w", err)
	}
	return indexes, nil
}

// Ensure Inspector implements inspect.Inspector interface
var _ inspect.Inspector = (*Inspector)(nil)
