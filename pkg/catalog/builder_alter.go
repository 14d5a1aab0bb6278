package catalog

import (
	"github.com/fernwood-labs/schemacat/pkg/parser"
	"github.com/fernwood-labs/schemacat/pkg/token"
)

// applyAlterTable applies each action in order against the staged
// catalog, so later actions see earlier ones' effects. Foreign keys
// added by any action resolve once at the end, against the
// post-statement table state.
func (b *Builder) applyAlterTable(cat *Catalog, s *parser.AlterTableStmt) error {
	ref := b.objRef(s.Table)
	pos := s.Table.Span().Start

	schema := cat.byName[ref.schemaKey]
	var t *Table
	if schema != nil {
		t = schema.tablesByName[ref.key]
	}
	if t == nil {
		if s.IfExists {
			return nil
		}
		if schema == nil {
			return semErr(UndefinedSchema, pos, ErrNoSuchSchema, ref.schemaName)
		}
		return semErr(UndefinedTable, pos, ErrNoSuchTable, ref.schemaName+"."+ref.name)
	}

	var added []*Constraint
	for _, action := range s.Actions {
		cons, err := b.applyAlterAction(cat, schema, t, action, pos)
		if err != nil {
			return err
		}
		added = append(added, cons...)
	}

	for _, con := range added {
		if con.Kind != ForeignKey {
			continue
		}
		// dropped again by a later action in the same statement
		if t.Constraint(con.Name) != con {
			continue
		}
		if err := b.validateOrDefer(cat, t, con); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) applyAlterAction(cat *Catalog, schema *Schema, t *Table, action parser.AlterAction, pos token.Position) ([]*Constraint, error) {
	switch a := action.(type) {
	case *parser.AddColumnAction:
		return b.alterAddColumn(cat, schema, t, a)
	case *parser.AddConstraintAction:
		return b.alterAddConstraint(t, a)
	case *parser.DropColumnAction:
		return nil, b.alterDropColumn(cat, t, a)
	case *parser.DropConstraintAction:
		return nil, b.alterDropConstraint(cat, t, a)
	case *parser.RenameTableAction:
		return nil, b.alterRenameTable(cat, schema, t, a)
	case *parser.RenameColumnAction:
		return nil, b.alterRenameColumn(cat, t, a)
	case *parser.AlterColumnAction:
		return nil, b.alterColumn(t, a)
	}
	return nil, semErr(UnsupportedConstruct, pos, "alter action %T cannot be applied", action)
}

func (b *Builder) alterAddColumn(cat *Catalog, schema *Schema, t *Table, a *parser.AddColumnAction) ([]*Constraint, error) {
	col, cons := extractColumn(b.dialect, a.Column)
	key := nameKey(b.dialect, a.Column.Name)
	if t.columnKeys[key] != nil {
		if a.IfNotExists {
			return nil, nil
		}
		return nil, semErr(DuplicateColumn, a.Column.Name.Span.Start,
			ErrColumnExists, col.Name, t.QualifiedName())
	}
	if err := b.checkColumnType(cat, schema, col); err != nil {
		return nil, err
	}
	t.addColumn(key, col)
	for _, con := range cons {
		if err := b.installConstraint(t, con); err != nil {
			return nil, err
		}
	}
	return cons, nil
}

func (b *Builder) alterAddConstraint(t *Table, a *parser.AddConstraintAction) ([]*Constraint, error) {
	con, idx := extractTableConstraint(b.dialect, a.Constraint)
	if idx != nil {
		return nil, b.installIndex(t, idx, a.Constraint.Span.Start, false)
	}
	if err := b.installConstraint(t, con); err != nil {
		return nil, err
	}
	return []*Constraint{con}, nil
}

// alterDropColumn drops a column along with its single-column
// constraints and every index covering it. A multi-column constraint
// over the column blocks the drop unless CASCADE; external foreign
// keys that stop resolving follow the cascade rule.
func (b *Builder) alterDropColumn(cat *Catalog, t *Table, a *parser.DropColumnAction) error {
	pos := a.Column.Span.Start
	key := nameKey(b.dialect, a.Column)
	col := t.columnKeys[key]
	if col == nil {
		if a.IfExists {
			return nil
		}
		return semErr(UndefinedColumn, pos, ErrNoSuchColumn,
			storedName(b.dialect, a.Column), t.QualifiedName())
	}
	cascade := b.cascades(a.Behavior)

	var drop []*Constraint
	for _, con := range t.Constraints {
		if !memberOf(t, con.Columns, col) {
			continue
		}
		if len(con.Columns) > 1 && !cascade {
			return semErr(ConstraintConflict, pos, ErrColumnInUse,
				col.Name, t.QualifiedName(), con.Name)
		}
		drop = append(drop, con)
	}
	for _, con := range drop {
		t.dropConstraintRecord(con)
	}

	for i := 0; i < len(t.Indexes); {
		if memberOf(t, t.Indexes[i].Columns, col) {
			t.removeIndexAt(i)
			continue
		}
		i++
	}

	t.removeColumn(key)
	return b.settleForeignKeys(cat, cascade)
}

// alterDropConstraint removes a named constraint. Dropping a primary
// key or unique constraint that a foreign key resolves against
// requires CASCADE.
func (b *Builder) alterDropConstraint(cat *Catalog, t *Table, a *parser.DropConstraintAction) error {
	name := storedName(b.dialect, a.Constraint)
	con := t.Constraint(name)
	if con == nil {
		if a.IfExists {
			return nil
		}
		return semErr(UndefinedConstraint, a.Constraint.Span.Start,
			ErrNoSuchConstraint, name, t.QualifiedName())
	}
	t.dropConstraintRecord(con)
	if con.Kind == PrimaryKey || con.Kind == Unique {
		return b.settleForeignKeys(cat, b.cascades(a.Behavior))
	}
	return nil
}

// alterRenameTable renames a table, rewriting the targets of foreign
// keys that resolve to it. An external reference blocks the rename
// without the cascade option; self references always follow.
func (b *Builder) alterRenameTable(cat *Catalog, schema *Schema, t *Table, a *parser.RenameTableAction) error {
	pos := a.NewName.Span.Start
	newName := storedName(b.dialect, a.NewName)
	newKey := nameKey(b.dialect, a.NewName)

	if other := schema.tablesByName[newKey]; other != nil && other != t {
		return semErr(DuplicateTable, pos, ErrTableExists, schema.Name+"."+newName)
	}

	refs := b.referencingFKs(cat, t)
	if !b.opts.DeferForeignKeys && !b.opts.CascadeDrops {
		for _, r := range refs {
			if r.owner != t {
				return semErr(DanglingForeignKey, pos, ErrRenameDangles,
					t.QualifiedName(), r.con.Name, r.owner.QualifiedName())
			}
		}
	}

	for k, existing := range schema.tablesByName {
		if existing == t {
			delete(schema.tablesByName, k)
			break
		}
	}
	schema.tablesByName[newKey] = t
	t.Name = newName
	for _, r := range refs {
		r.con.RefTable = newName
	}
	return nil
}

// alterRenameColumn renames a column, updating the member lists of
// the table's constraints and indexes and the referenced columns of
// foreign keys targeting this table. An external reference to the
// column blocks the rename without the cascade option.
func (b *Builder) alterRenameColumn(cat *Catalog, t *Table, a *parser.RenameColumnAction) error {
	col := t.columnKeys[nameKey(b.dialect, a.From)]
	if col == nil {
		return semErr(UndefinedColumn, a.From.Span.Start, ErrNoSuchColumn,
			storedName(b.dialect, a.From), t.QualifiedName())
	}
	newName := storedName(b.dialect, a.To)
	newKey := nameKey(b.dialect, a.To)
	if other := t.columnKeys[newKey]; other != nil && other != col {
		return semErr(DuplicateColumn, a.To.Span.Start,
			ErrColumnExists, newName, t.QualifiedName())
	}

	refs := b.referencingFKs(cat, t)
	if !b.opts.DeferForeignKeys && !b.opts.CascadeDrops {
		for _, r := range refs {
			if r.owner != t && memberOf(t, r.con.RefColumns, col) {
				return semErr(DanglingForeignKey, a.To.Span.Start, ErrRenameDangles,
					"column "+col.Name+" of "+t.QualifiedName(),
					r.con.Name, r.owner.QualifiedName())
			}
		}
	}

	// Rewrite member lists while the old spelling still resolves.
	for _, con := range t.Constraints {
		renameMember(t, con.Columns, col, newName)
	}
	for _, idx := range t.Indexes {
		renameMember(t, idx.Columns, col, newName)
	}
	for _, r := range refs {
		renameMember(t, r.con.RefColumns, col, newName)
	}

	for k, existing := range t.columnKeys {
		if existing == col {
			delete(t.columnKeys, k)
			break
		}
	}
	t.columnKeys[newKey] = col
	col.Name = newName
	return nil
}

// alterColumn applies a SET/DROP NOT NULL or DEFAULT operation,
// keeping any named marker record for the column in step.
func (b *Builder) alterColumn(t *Table, a *parser.AlterColumnAction) error {
	pos := a.Column.Span.Start
	col := t.columnKeys[nameKey(b.dialect, a.Column)]
	if col == nil {
		return semErr(UndefinedColumn, pos, ErrNoSuchColumn,
			storedName(b.dialect, a.Column), t.QualifiedName())
	}
	switch a.Op {
	case parser.AlterSetNotNull:
		col.NotNull = true
	case parser.AlterDropNotNull:
		if pk := t.PrimaryKey(); pk != nil && memberOf(t, pk.Columns, col) {
			return semErr(ConstraintConflict, pos,
				ErrPKColumnNotNull, col.Name, t.QualifiedName())
		}
		col.NotNull = false
		if m := t.columnMarker(col, NotNull); m != nil {
			t.dropConstraintRecord(m)
		}
	case parser.AlterSetDefault:
		col.Default = a.Default.Text
		if m := t.columnMarker(col, Default); m != nil {
			m.Expr = a.Default.Text
		}
	case parser.AlterDropDefault:
		col.Default = ""
		if m := t.columnMarker(col, Default); m != nil {
			t.dropConstraintRecord(m)
		}
	}
	return nil
}

// memberOf reports whether a column list names the given column.
func memberOf(t *Table, names []string, col *Column) bool {
	for _, n := range names {
		if t.Column(n) == col {
			return true
		}
	}
	return false
}

// renameMember rewrites the entries of a column list that resolve to
// the renamed column.
func renameMember(t *Table, names []string, col *Column, newName string) {
	for i, n := range names {
		if t.Column(n) == col {
			names[i] = newName
		}
	}
}
