// Package mysql provides a MySQL schema inspector.
//
// MySQL treats schema and database as the same object, so inspection
// covers the configured database, or every user database when none is
// configured. CHECK constraint metadata requires MySQL 8.0.16.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/fernwood-labs/schemacat/pkg/core"
	"github.com/fernwood-labs/schemacat/pkg/dialect"
	mydialect "github.com/fernwood-labs/schemacat/pkg/dialects/mysql"
	"github.com/fernwood-labs/schemacat/pkg/inspect"
)

// Inspector reads schema metadata from MySQL's information_schema.
type Inspector struct {
	inspect.BaseInspector
}

// New creates a new MySQL inspector instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Inspector{
		BaseInspector: inspect.BaseInspector{Logger: logger},
	}
}

// Dialect returns the MySQL dialect.
func (i *Inspector) Dialect() *dialect.Dialect {
	return mydialect.MySQL
}

// Connect establishes a connection to MySQL.
func (i *Inspector) Connect(ctx context.Context, cfg core.InspectConfig) error {
	dsn := buildMySQLDSN(cfg)

	i.Logger.Debug("connecting to mysql", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open mysql connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}

	i.DB = db
	i.Cfg = cfg
	return nil
}

// buildMySQLDSN constructs a go-sql-driver connection string:
// user:pass@tcp(host:port)/dbname?opt=val
func buildMySQLDSN(cfg core.InspectConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	var sb strings.Builder
	if cfg.Username != "" {
		sb.WriteString(cfg.Username)
		if cfg.Password != "" {
			sb.WriteByte(':')
			sb.WriteString(cfg.Password)
		}
		sb.WriteByte('@')
	}
	fmt.Fprintf(&sb, "tcp(%s:%d)/%s", host, port, cfg.Database)

	if len(cfg.Options) > 0 {
		keys := make([]string, 0, len(cfg.Options))
		for k := range cfg.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sep := "?"
		for _, k := range keys {
			sb.WriteString(sep)
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(cfg.Options[k])
			sep = "&"
		}
	}
	return sb.String()
}

// Schemas lists user databases. A configured database scopes the
// result to itself.
func (i *Inspector) Schemas(ctx context.Context) ([]string, error) {
	if i.DB == nil {
		return nil, inspect.ErrNotConnected
	}
	if i.Cfg.Database != "" {
		return []string{i.Cfg.Database}, nil
	}

	query := `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')
		ORDER BY schema_name
	`
	return i.QueryStrings(ctx, query)
}

// InspectSchema reads one database's tables, constraints, and indexes.
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

// tableColumns reads column definitions. COLUMN_TYPE carries the full
// type text including enum labels and display width. Literal defaults
// come back unquoted; EXTRA distinguishes them from expression
// defaults, which MySQL marks DEFAULT_GENERATED.
func (i *Inspector) tableColumns(ctx context.Context, schema, table string) ([]inspect.ColumnInfo, error) {
	query := `
		SELECT column_name, column_type, is_nullable, column_default, extra
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
		var nullable, extra string
		var def sql.NullString
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &def, &extra); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.NotNull = nullable == "NO"
		if def.Valid {
			col.Default = def.String
			if !strings.Contains(strings.ToUpper(extra), "DEFAULT_GENERATED") {
				col.Default = quoteLiteral(def.String)
			}
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	return cols, nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// keyConstraints reads primary key and unique constraints. MySQL names
// every primary key PRIMARY; that name is dropped so built catalogs
// use a generated one instead.
func (i *Inspector) keyConstraints(ctx context.Context, schema, table string) ([]inspect.ConstraintInfo, error) {
	query := `
		SELECT tc.constraint_name, tc.constraint_type, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_schema = tc.constraint_schema
		 AND kcu.constraint_name = tc.constraint_name
		 AND kcu.table_name = tc.table_name
		WHERE tc.table_schema = ? AND tc.table_name = ?
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
			con := inspect.ConstraintInfo{Name: name, Type: typ}
			if name == "PRIMARY" {
				con.Name = ""
			}
			cons = append(cons, con)
		}
		cons[idx].Columns = append(cons[idx].Columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating key constraints: %w", err)
	}
	return cons, nil
}

// checkConstraints reads check constraints (MySQL 8.0.16 and later).
func (i *Inspector) checkConstraints(ctx context.Context, schema, table string) ([]inspect.ConstraintInfo, error) {
	query := `
		SELECT cc.constraint_name, cc.check_clause
		FROM information_schema.table_constraints tc
		JOIN information_schema.check_constraints cc
		  ON cc.constraint_schema = tc.constraint_schema
		 AND cc.constraint_name = tc.constraint_name
		WHERE tc.table_schema = ? AND tc.table_name = ?
		  AND tc.constraint_type = 'CHECK'
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

// foreignKeys reads foreign key constraints. key_column_usage carries
// the referenced side directly, one row per column pair in key order.
func (i *Inspector) foreignKeys(ctx context.Context, schema, table string) ([]inspect.ConstraintInfo, error) {
	query := `
		SELECT kcu.constraint_name, kcu.column_name,
		       kcu.referenced_table_schema, kcu.referenced_table_name,
		       kcu.referenced_column_name,
		       rc.delete_rule, rc.update_rule
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.referential_constraints rc
		  ON rc.constraint_schema = kcu.constraint_schema
		 AND rc.constraint_name = kcu.constraint_name
		 AND rc.table_name = kcu.table_name
		WHERE kcu.table_schema = ? AND kcu.table_name = ?
		  AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.constraint_name, kcu.ordinal_position
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

// tableIndexes reads secondary indexes from statistics. The PRIMARY
// index is covered by the primary key constraint; functional key parts
// have no column name, and indexes containing one are skipped whole.
func (i *Inspector) tableIndexes(ctx context.Context, schema, table string) ([]inspect.IndexInfo, error) {
	query := `
		SELECT index_name, column_name, non_unique
		FROM information_schema.statistics
		WHERE table_schema = ? AND table_name = ? AND index_name <> 'PRIMARY'
		ORDER BY index_name, seq_in_index
	`
	rows, err := i.DB.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var indexes []inspect.IndexInfo
	byName := map[string]int{}
	functional := map[string]bool{}
	for rows.Next() {
		var name string
		var column sql.NullString
		var nonUnique int
		if err := rows.Scan(&name, &column, &nonUnique); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		if !column.Valid {
			functional[name] = true
			continue
		}
		idx, ok := byName[name]
		if !ok {
			idx = len(indexes)
			byName[name] = idx
			indexes = append(indexes, inspect.IndexInfo{Name: name, Unique: nonUnique == 0})
		}
		indexes[idx].Columns = append(indexes[idx].Columns, column.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating indexes: %w", err)
	}

	if len(functional) == 0 {
		return indexes, nil
	}
	kept := indexes[:0]
	for _, idx := range indexes {
		if !functional[idx.Name] {
			kept = append(kept, idx)
		}
	}
	return kept, nil
}

// Ensure Inspector implements inspect.Inspector interface
var _ inspect.Inspector = (*Inspector)(nil)
