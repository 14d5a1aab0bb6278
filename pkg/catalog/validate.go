package catalog

import (
	"strings"

	"github.com/fernwood-labs/schemacat/pkg/token"
)

// checkColumnType validates a column's type against the dialect's
// built-in table and the catalog's declared enum types. The owning
// schema is searched before the default schema, mirroring an implicit
// search path.
func (b *Builder) checkColumnType(cat *Catalog, owner *Schema, col *Column) error {
	if b.dialect.AcceptsAnyType {
		return nil
	}
	tr := col.Type
	if tr.Schema != "" {
		if s := cat.Schema(tr.Schema); s != nil && s.Type(tr.Name) != nil {
			return nil
		}
		return semErr(UnknownType, col.Span.Start, ErrUnknownType, tr.String(), col.Name)
	}
	if b.dialect.IsDataType(tr.Name) {
		return nil
	}
	if owner.Type(tr.Name) != nil {
		return nil
	}
	if s := cat.Schema(b.defaultSchema); s != nil && s.Type(tr.Name) != nil {
		return nil
	}
	return semErr(UnknownType, col.Span.Start, ErrUnknownType, tr.String(), col.Name)
}

// refSchemaName returns the schema a foreign key's target table lives
// in; an unqualified reference resolves to the default schema.
func (b *Builder) refSchemaName(con *Constraint) string {
	if con.RefSchema != "" {
		return con.RefSchema
	}
	return b.defaultSchema
}

// resolveForeignKey checks a foreign key against the catalog: the
// target table must exist and the referenced columns must be covered
// by its primary key, a unique constraint, or a unique index, with
// matching arity and order-insensitive set equality. An omitted column
// list is materialized from the target's primary key.
func (b *Builder) resolveForeignKey(cat *Catalog, owner *Table, con *Constraint) error {
	pos := con.Span.Start
	ownerName := owner.QualifiedName()

	target := cat.Table(b.refSchemaName(con), con.RefTable)
	if target == nil {
		return semErr(DanglingForeignKey, pos, ErrFKTargetTable, ownerName, con.RefTable)
	}

	if len(con.RefColumns) == 0 {
		pk := target.PrimaryKey()
		if pk == nil {
			return semErr(DanglingForeignKey, pos,
				"foreign key on %s references %s, which has no primary key",
				ownerName, target.QualifiedName())
		}
		con.RefColumns = append([]string(nil), pk.Columns...)
	}

	if len(con.Columns) != len(con.RefColumns) {
		return semErr(DanglingForeignKey, pos, ErrFKArity,
			ownerName, len(con.Columns), len(con.RefColumns))
	}

	// Resolve referenced names to columns; set comparison works on
	// column identity so spelling variants cannot alias.
	refSet := make(map[*Column]bool, len(con.RefColumns))
	for _, name := range con.RefColumns {
		c := target.Column(name)
		if c == nil || refSet[c] {
			return b.fkCoverageError(pos, ownerName, target, con)
		}
		refSet[c] = true
	}

	for _, set := range target.UniqueKeySets() {
		if columnSetMatches(target, set, refSet) {
			return nil
		}
	}
	return b.fkCoverageError(pos, ownerName, target, con)
}

func (b *Builder) fkCoverageError(pos token.Position, ownerName string, target *Table, con *Constraint) error {
	return semErr(DanglingForeignKey, pos, ErrFKTargetColumns,
		ownerName, target.QualifiedName(), joinColumns(con.RefColumns))
}

// columnSetMatches reports whether the named unique set covers exactly
// the referenced columns.
func columnSetMatches(t *Table, set []string, refSet map[*Column]bool) bool {
	if len(set) != len(refSet) {
		return false
	}
	for _, name := range set {
		c := t.Column(name)
		if c == nil || !refSet[c] {
			return false
		}
	}
	return true
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

// settleForeignKeys re-resolves every foreign key after a drop or
// rename. Dangling keys are removed when cascade is set; otherwise the
// first one fails the statement. Deferred mode leaves settlement to
// Finalize.
func (b *Builder) settleForeignKeys(cat *Catalog, cascade bool) error {
	if b.opts.DeferForeignKeys {
		return nil
	}
	for _, s := range cat.schemas {
		for _, t := range s.tables {
			kept := t.Constraints[:0]
			for _, con := range t.Constraints {
				if con.Kind != ForeignKey {
					kept = append(kept, con)
					continue
				}
				if err := b.resolveForeignKey(cat, t, con); err != nil {
					if !cascade {
						return err
					}
					b.logger.Debug("cascading foreign key removal",
						"table", t.QualifiedName(), "constraint", con.Name)
					continue
				}
				kept = append(kept, con)
			}
			t.Constraints = kept
		}
	}
	return nil
}

// fkRef pairs a foreign key with its owning table.
type fkRef struct {
	owner *Table
	con   *Constraint
}

// referencingFKs returns every foreign key in the catalog that
// currently resolves to the given table, the table's own self
// references included.
func (b *Builder) referencingFKs(cat *Catalog, target *Table) []fkRef {
	var refs []fkRef
	for _, s := range cat.schemas {
		for _, t := range s.tables {
			for _, con := range t.Constraints {
				if con.Kind != ForeignKey {
					continue
				}
				if cat.Table(b.refSchemaName(con), con.RefTable) == target {
					refs = append(refs, fkRef{owner: t, con: con})
				}
			}
		}
	}
	return refs
}

// validateOrDefer resolves a newly added foreign key immediately.
// Under DeferForeignKeys the key is accepted as declared and left for
// Finalize.
func (b *Builder) validateOrDefer(cat *Catalog, owner *Table, con *Constraint) error {
	if b.opts.DeferForeignKeys {
		return nil
	}
	return b.resolveForeignKey(cat, owner, con)
}
