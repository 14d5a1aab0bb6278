package catalog

import (
	"github.com/fernwood-labs/schemacat/pkg/parser"
)

// applyDropTable removes each named table, then re-resolves the
// remaining foreign keys once. Tables dropped in the same statement
// may reference each other without CASCADE.
func (b *Builder) applyDropTable(cat *Catalog, s *parser.DropTableStmt) error {
	cascade := b.cascades(s.Behavior)
	for _, on := range s.Tables {
		ref := b.objRef(on)
		schema := cat.byName[ref.schemaKey]
		var t *Table
		if schema != nil {
			t = schema.tablesByName[ref.key]
		}
		if t == nil {
			if s.IfExists {
				continue
			}
			if schema == nil {
				return semErr(UndefinedSchema, on.Span().Start,
					ErrNoSuchSchema, ref.schemaName)
			}
			return semErr(UndefinedTable, on.Span().Start,
				ErrNoSuchTable, ref.schemaName+"."+ref.name)
		}
		schema.removeTable(ref.key)
		b.logger.Debug("dropped table", "table", t.QualifiedName())
	}
	return b.settleForeignKeys(cat, cascade)
}

// applyDropIndex removes an index. The backing index of a unique
// constraint cannot be dropped directly; dropping a unique index a
// foreign key resolves against follows the cascade rule.
func (b *Builder) applyDropIndex(cat *Catalog, s *parser.DropIndexStmt) error {
	pos := s.Index.Span().Start
	name := storedName(b.dialect, s.Index.Name)

	t, idx, err := b.findIndex(cat, s, name)
	if err != nil {
		if s.IfExists {
			return nil
		}
		return err
	}

	if con := t.Constraint(idx.Name); con != nil && con.Kind == Unique {
		return semErr(ConstraintConflict, pos, ErrIndexBacked, idx.Name, t.QualifiedName())
	}
	for i, existing := range t.Indexes {
		if existing == idx {
			t.removeIndexAt(i)
			break
		}
	}
	if idx.Unique {
		return b.settleForeignKeys(cat, b.cascades(s.Behavior))
	}
	return nil
}

// findIndex locates the index a DROP INDEX names: on the ON table in
// the MySQL form, otherwise across the qualifying schema's tables,
// defaulting to the default schema.
func (b *Builder) findIndex(cat *Catalog, s *parser.DropIndexStmt, name string) (*Table, *Index, error) {
	pos := s.Index.Span().Start

	if !s.Table.Name.IsZero() {
		ref := b.objRef(s.Table)
		schema := cat.byName[ref.schemaKey]
		if schema == nil {
			return nil, nil, semErr(UndefinedSchema, pos, ErrNoSuchSchema, ref.schemaName)
		}
		t := schema.tablesByName[ref.key]
		if t == nil {
			return nil, nil, semErr(UndefinedTable, pos,
				ErrNoSuchTable, ref.schemaName+"."+ref.name)
		}
		idx := t.Index(name)
		if idx == nil {
			return nil, nil, semErr(UndefinedIndex, pos, ErrNoSuchIndex, name)
		}
		return t, idx, nil
	}

	schemaName, schemaKey := b.defaultSchema, b.defaultSchemaKey
	if !s.Index.Schema.IsZero() {
		schemaName = storedName(b.dialect, s.Index.Schema)
		schemaKey = nameKey(b.dialect, s.Index.Schema)
	}
	schema := cat.byName[schemaKey]
	if schema == nil {
		if !s.Index.Schema.IsZero() {
			return nil, nil, semErr(UndefinedSchema, pos, ErrNoSuchSchema, schemaName)
		}
		return nil, nil, semErr(UndefinedIndex, pos, ErrNoSuchIndex, name)
	}
	for _, t := range schema.tables {
		if idx := t.Index(name); idx != nil {
			return t, idx, nil
		}
	}
	return nil, nil, semErr(UndefinedIndex, pos, ErrNoSuchIndex, name)
}

// applyDropSchema removes a schema. RESTRICT, the default, fails when
// the schema still holds tables or types; CASCADE drops its contents
// along with any foreign keys that stop resolving.
func (b *Builder) applyDropSchema(cat *Catalog, s *parser.DropSchemaStmt) error {
	pos := s.Name.Span.Start
	name := storedName(b.dialect, s.Name)
	key := nameKey(b.dialect, s.Name)

	schema := cat.byName[key]
	if schema == nil {
		if s.IfExists {
			return nil
		}
		return semErr(UndefinedSchema, pos, ErrNoSuchSchema, name)
	}
	cascade := b.cascades(s.Behavior)
	if !schema.Empty() && !cascade {
		return semErr(ConstraintConflict, pos, ErrSchemaNotEmpty, name)
	}
	cat.removeSchema(key)
	b.logger.Debug("dropped schema", "schema", name, "tables", len(schema.tables))
	return b.settleForeignKeys(cat, cascade)
}
