package catalog

import (
	"strconv"

	"github.com/fernwood-labs/schemacat/pkg/parser"
	"github.com/fernwood-labs/schemacat/pkg/token"
)

// applyCreateTable builds a table from its definition. The target
// schema comes into being on first reference. Constraints install in
// declaration order; foreign keys resolve in a second pass so a
// self-reference sees the finished table.
func (b *Builder) applyCreateTable(cat *Catalog, s *parser.CreateTableStmt) error {
	ref := b.objRef(s.Table)
	schema := cat.ensureSchema(ref.schemaKey, ref.schemaName)

	if schema.tablesByName[ref.key] != nil {
		if s.IfNotExists {
			return nil
		}
		return semErr(DuplicateTable, s.Table.Span().Start,
			ErrTableExists, schema.Name+"."+ref.name)
	}

	t := &Table{
		Schema:     schema.Name,
		Name:       ref.name,
		dialect:    b.dialect,
		columnKeys: make(map[string]*Column, len(s.Columns)),
		Span:       s.Span,
	}

	var records []*Constraint
	for _, def := range s.Columns {
		col, cons := extractColumn(b.dialect, def)
		key := nameKey(b.dialect, def.Name)
		if t.columnKeys[key] != nil {
			return semErr(DuplicateColumn, def.Name.Span.Start,
				ErrColumnExists, col.Name, t.QualifiedName())
		}
		if err := b.checkColumnType(cat, schema, col); err != nil {
			return err
		}
		t.addColumn(key, col)
		records = append(records, cons...)
	}

	for _, tc := range s.Constraints {
		con, idx := extractTableConstraint(b.dialect, tc)
		if idx != nil {
			if err := b.installIndex(t, idx, tc.Span.Start, false); err != nil {
				return err
			}
			continue
		}
		records = append(records, con)
	}

	schema.addTable(ref.key, t)

	for _, con := range records {
		if err := b.installConstraint(t, con); err != nil {
			return err
		}
	}
	for _, con := range records {
		if con.Kind != ForeignKey {
			continue
		}
		if err := b.validateOrDefer(cat, t, con); err != nil {
			return err
		}
	}

	b.logger.Debug("created table", "table", t.QualifiedName(),
		"columns", len(t.Columns), "constraints", len(t.Constraints))
	return nil
}

// installConstraint attaches one constraint record to its table:
// verifies member columns, names unnamed constraints, rejects
// conflicts, applies primary-key nullability, and adds the backing
// index for unique constraints. Foreign keys resolve elsewhere.
func (b *Builder) installConstraint(t *Table, con *Constraint) error {
	pos := con.Span.Start
	for _, name := range con.Columns {
		if t.Column(name) == nil {
			return semErr(UndefinedColumn, pos, ErrNoSuchColumn, name, t.QualifiedName())
		}
	}
	if con.Kind == PrimaryKey && t.PrimaryKey() != nil {
		return semErr(ConstraintConflict, pos, ErrSecondPrimaryKey, t.QualifiedName())
	}
	if con.Name == "" {
		con.Name = freeName(t, generatedConstraintName(t.Name, con.Kind, con.Columns))
	}
	if t.Constraint(con.Name) != nil {
		return semErr(ConstraintConflict, pos, ErrConstraintExists, con.Name, t.QualifiedName())
	}
	if con.Kind == Unique && t.Index(con.Name) != nil {
		return semErr(ConstraintConflict, pos, ErrIndexExists, con.Name, t.QualifiedName())
	}

	t.Constraints = append(t.Constraints, con)
	switch con.Kind {
	case PrimaryKey:
		for _, name := range con.Columns {
			t.Column(name).NotNull = true
		}
	case Unique:
		t.Indexes = append(t.Indexes, &Index{
			Name:    con.Name,
			Columns: append([]string(nil), con.Columns...),
			Unique:  true,
			Span:    con.Span,
		})
	}
	return nil
}

// installIndex attaches an index to its table, naming it when unnamed.
// ifNotExists suppresses the duplicate-name error.
func (b *Builder) installIndex(t *Table, idx *Index, pos token.Position, ifNotExists bool) error {
	for _, name := range idx.Columns {
		if t.Column(name) == nil {
			return semErr(UndefinedColumn, pos, ErrNoSuchColumn, name, t.QualifiedName())
		}
	}
	if idx.Name == "" {
		idx.Name = freeName(t, generatedIndexName(t.Name, idx.Columns))
	}
	if t.Index(idx.Name) != nil {
		if ifNotExists {
			return nil
		}
		return semErr(ConstraintConflict, pos, ErrIndexExists, idx.Name, t.QualifiedName())
	}
	t.Indexes = append(t.Indexes, idx)
	return nil
}

// freeName disambiguates a generated constraint or index name with a
// numeric suffix, so repeated unnamed declarations do not collide.
func freeName(t *Table, base string) string {
	name := base
	for i := 1; t.Constraint(name) != nil || t.Index(name) != nil; i++ {
		name = base + strconv.Itoa(i)
	}
	return name
}

// applyCreateIndex adds a secondary index to an existing table.
func (b *Builder) applyCreateIndex(cat *Catalog, s *parser.CreateIndexStmt) error {
	ref := b.objRef(s.Table)
	pos := s.Table.Span().Start

	schema := cat.byName[ref.schemaKey]
	if schema == nil {
		return semErr(UndefinedSchema, pos, ErrNoSuchSchema, ref.schemaName)
	}
	t := schema.tablesByName[ref.key]
	if t == nil {
		return semErr(UndefinedTable, pos, ErrNoSuchTable, ref.schemaName+"."+ref.name)
	}

	idx := &Index{
		Columns: storedNames(b.dialect, s.Columns),
		Unique:  s.Unique,
		Span:    s.Span,
	}
	if !s.Name.IsZero() {
		idx.Name = storedName(b.dialect, s.Name)
	}
	return b.installIndex(t, idx, pos, s.IfNotExists)
}

// applyCreateSchema declares a schema explicitly. Declaring a schema
// that exists is an error even when earlier DDL created it implicitly;
// IF NOT EXISTS suppresses that.
func (b *Builder) applyCreateSchema(cat *Catalog, s *parser.CreateSchemaStmt) error {
	name := storedName(b.dialect, s.Name)
	key := nameKey(b.dialect, s.Name)
	if cat.byName[key] != nil {
		if s.IfNotExists {
			return nil
		}
		return semErr(DuplicateSchema, s.Name.Span.Start, ErrSchemaExists, name)
	}
	cat.ensureSchema(key, name)
	return nil
}

// applyCreateType declares an enum type. Like tables, the owning
// schema comes into being on first reference.
func (b *Builder) applyCreateType(cat *Catalog, s *parser.CreateTypeStmt) error {
	ref := b.objRef(s.Name)
	if len(s.Values) == 0 {
		return semErr(UnsupportedConstruct, s.Name.Span().Start,
			ErrEmptyEnum, ref.name)
	}
	schema := cat.ensureSchema(ref.schemaKey, ref.schemaName)

	if schema.typesByName[ref.key] != nil {
		return semErr(DuplicateType, s.Name.Span().Start,
			ErrTypeExists, schema.Name+"."+ref.name)
	}
	schema.addType(ref.key, &EnumType{
		Name:   ref.name,
		Values: append([]string(nil), s.Values...),
		Span:   s.Span,
	})
	return nil
}
