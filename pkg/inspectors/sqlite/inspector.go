// Package sqlite provides a SQLite schema inspector.
//
// SQLite exposes schema metadata through PRAGMA functions rather than
// information_schema views. PRAGMA arguments cannot be bound as query
// parameters, so schema and table names are quoted and interpolated.
// Check constraints only exist inside the stored CREATE TABLE text and
// are not inspected.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/fernwood-labs/schemacat/pkg/core"
	"github.com/fernwood-labs/schemacat/pkg/dialect"
	sqdialect "github.com/fernwood-labs/schemacat/pkg/dialects/sqlite"
	"github.com/fernwood-labs/schemacat/pkg/inspect"
)

// Inspector reads schema metadata from SQLite PRAGMA functions.
type Inspector struct {
	inspect.BaseInspector
}

// New creates a new SQLite inspector instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Inspector{
		BaseInspector: inspect.BaseInspector{Logger: logger},
	}
}

// Dialect returns the SQLite dialect.
func (i *Inspector) Dialect() *dialect.Dialect {
	return sqdialect.SQLite
}

// Connect opens the SQLite database at cfg.Path.
// Use ":memory:" as the path for an in-memory database.
func (i *Inspector) Connect(ctx context.Context, cfg core.InspectConfig) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	i.Logger.Debug("connecting to sqlite", slog.String("path", path))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	i.DB = db
	i.Cfg = cfg
	return nil
}

// Schemas lists attached databases in attach order, main first. The
// temp database is excluded.
func (i *Inspector) Schemas(ctx context.Context) ([]string, error) {
	if i.DB == nil {
		return nil, inspect.ErrNotConnected
	}

	rows, err := i.DB.QueryContext(ctx, "PRAGMA database_list")
	if err != nil {
		return nil, fmt.Errorf("failed to query database list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var schemas []string
	for rows.Next() {
		var seq int
		var name string
		var file sql.NullString
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, fmt.Errorf("failed to scan database list: %w", err)
		}
		if name == "temp" {
			continue
		}
		schemas = append(schemas, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating database list: %w", err)
	}
	return schemas, nil
}

// InspectSchema reads one attached database's tables, constraints, and
// indexes.
func (i *Inspector) InspectSchema(ctx context.Context, schema string) (*inspect.SchemaInfo, error) {
	if i.DB == nil {
		return nil, inspect.ErrNotConnected
	}

	info := &inspect.SchemaInfo{Name: schema}

	tablesQuery := fmt.Sprintf(
		"SELECT name FROM %s.sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%%' ORDER BY name",
		i.quote(schema)) //nolint:gosec // schema names cannot be bound; quoted instead
	names, err := i.QueryStrings(ctx, tablesQuery)
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

	pk, err := i.tableColumns(ctx, t)
	if err != nil {
		return nil, err
	}
	if pk != nil {
		t.Constraints = append(t.Constraints, *pk)
	}
	fks, err := i.foreignKeys(ctx, schema, table)
	if err != nil {
		return nil, err
	}
	if err := i.tableIndexes(ctx, t); err != nil {
		return nil, err
	}
	t.Constraints = append(t.Constraints, fks...)
	return t, nil
}

// tableColumns fills t.Columns from table_info and returns the primary
// key constraint, if any. The pk column of table_info carries the
// 1-based position of each primary key member.
func (i *Inspector) tableColumns(ctx context.Context, t *inspect.TableInfo) (*inspect.ConstraintInfo, error) {
	query := fmt.Sprintf("PRAGMA %s.table_info(%s)", i.quote(t.Schema), i.quote(t.Name)) //nolint:gosec // PRAGMA arguments cannot be bound; quoted instead
	rows, err := i.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table info: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type pkMember struct {
		pos  int
		name string
	}
	var pkMembers []pkMember
	for rows.Next() {
		var cid, notNull, pk int
		var col inspect.ColumnInfo
		var def sql.NullString
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &def, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan table info: %w", err)
		}
		// Untyped columns take BLOB affinity.
		if col.Type == "" {
			col.Type = "blob"
		}
		col.NotNull = notNull != 0
		col.Default = def.String
		t.Columns = append(t.Columns, col)
		if pk > 0 {
			pkMembers = append(pkMembers, pkMember{pos: pk, name: col.Name})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating table info: %w", err)
	}

	if len(pkMembers) == 0 {
		return nil, nil
	}
	sort.Slice(pkMembers, func(a, b int) bool { return pkMembers[a].pos < pkMembers[b].pos })
	pk := &inspect.ConstraintInfo{Type: inspect.ConstraintPrimaryKey}
	for _, m := range pkMembers {
		pk.Columns = append(pk.Columns, m.name)
	}
	return pk, nil
}

// foreignKeys reads foreign_key_list rows grouped by constraint id. A
// NULL target column means the reference binds to the target's primary
// key; those references keep an empty column list. SQLite does not
// expose constraint names through the PRAGMA, so every foreign key
// comes back unnamed.
func (i *Inspector) foreignKeys(ctx context.Context, schema, table string) ([]inspect.ConstraintInfo, error) {
	query := fmt.Sprintf("PRAGMA %s.foreign_key_list(%s)", i.quote(schema), i.quote(table)) //nolint:gosec // PRAGMA arguments cannot be bound; quoted instead
	rows, err := i.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign key list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byID := map[int]*inspect.ConstraintInfo{}
	var ids []int
	for rows.Next() {
		var id, seq int
		var refTable, from, onUpdate, onDelete, match string
		var to sql.NullString
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		con, ok := byID[id]
		if !ok {
			con = &inspect.ConstraintInfo{
				Type:     inspect.ConstraintForeignKey,
				RefTable: refTable,
				OnDelete: onDelete,
				OnUpdate: onUpdate,
			}
			byID[id] = con
			ids = append(ids, id)
		}
		con.Columns = append(con.Columns, from)
		if to.Valid {
			con.RefColumns = append(con.RefColumns, to.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foreign keys: %w", err)
	}

	// The PRAGMA reports constraints newest-first; flip to declaration
	// order.
	sort.Ints(ids)
	cons := make([]inspect.ConstraintInfo, 0, len(ids))
	for _, id := range ids {
		cons = append(cons, *byID[id])
	}
	return cons, nil
}

// tableIndexes reads index_list and splits it by origin: 'u' rows were
// declared as unique constraints and come back as such, 'c' rows are
// standalone indexes, 'pk' rows duplicate the primary key. Partial
// indexes and indexes over expressions have no declarable column list
// and are skipped.
func (i *Inspector) tableIndexes(ctx context.Context, t *inspect.TableInfo) error {
	query := fmt.Sprintf("PRAGMA %s.index_list(%s)", i.quote(t.Schema), i.quote(t.Name)) //nolint:gosec // PRAGMA arguments cannot be bound; quoted instead
	rows, err := i.DB.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query index list: %w", err)
	}

	type indexEntry struct {
		name   string
		unique bool
		origin string
	}
	var entries []indexEntry
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			_ = rows.Close()
			return fmt.Errorf("failed to scan index list: %w", err)
		}
		if origin == "pk" || partial != 0 {
			continue
		}
		entries = append(entries, indexEntry{name: name, unique: unique != 0, origin: origin})
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("error iterating index list: %w", err)
	}
	_ = rows.Close()

	// index_list order is creation-dependent; sort for stable output.
	sort.Slice(entries, func(a, b int) bool { return entries[a].name < entries[b].name })

	for _, e := range entries {
		columns, expr, err := i.indexColumns(ctx, t.Schema, e.name)
		if err != nil {
			return err
		}
		if expr {
			continue
		}
		if e.origin == "u" {
			t.Constraints = append(t.Constraints, inspect.ConstraintInfo{
				Type:    inspect.ConstraintUnique,
				Columns: columns,
			})
			continue
		}
		t.Indexes = append(t.Indexes, inspect.IndexInfo{Name: e.name, Columns: columns, Unique: e.unique})
	}
	return nil
}

// indexColumns reads index_info key columns in order. expr reports an
// expression key part, which has no column name.
func (i *Inspector) indexColumns(ctx context.Context, schema, index string) (columns []string, expr bool, err error) {
	query := fmt.Sprintf("PRAGMA %s.index_info(%s)", i.quote(schema), i.quote(index)) //nolint:gosec // PRAGMA arguments cannot be bound; quoted instead
	rows, err := i.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query index info: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, false, fmt.Errorf("failed to scan index info: %w", err)
		}
		if !name.Valid {
			expr = true
			continue
		}
		columns = append(columns, name.String)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("error iterating index info: %w", err)
	}
	return columns, expr, nil
}

func (i *Inspector) quote(name string) string {
	return sqdialect.SQLite.QuoteIdentifier(name)
}

// Ensure Inspector implements inspect.Inspector interface
var _ inspect.Inspector = (*Inspector)(nil)
