package catalog

import (
	"strconv"
	"strings"

	"github.com/fernwood-labs/schemacat/pkg/dialect"
	"github.com/fernwood-labs/schemacat/pkg/parser"
)

// storedName returns the display form of a parsed identifier: quoted
// spellings verbatim, unquoted ones normalized per the dialect.
func storedName(d *dialect.Dialect, n parser.Name) string {
	if n.Quoted || d == nil {
		return n.Value
	}
	return d.NormalizeName(n.Value)
}

// nameKey returns the catalog lookup key for a parsed identifier.
func nameKey(d *dialect.Dialect, n parser.Name) string {
	if d == nil {
		return n.Value
	}
	return d.FoldKey(n.Value, n.Quoted)
}

// storedNames maps a parsed column list to stored display names.
func storedNames(d *dialect.Dialect, names []parser.Name) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = storedName(d, n)
	}
	return out
}

// typeRefFrom converts a parsed type to its catalog form. Numeric type
// arguments become parameters; non-numeric arguments (such as MySQL
// inline enum members) are not modeled.
func typeRefFrom(d *dialect.Dialect, t *parser.TypeName) TypeRef {
	tr := TypeRef{
		Name:      t.Name,
		ArrayDims: t.ArrayDims,
		Modifiers: append([]string(nil), t.Modifiers...),
	}
	if !t.Schema.IsZero() {
		tr.Schema = storedName(d, t.Schema)
	}
	for _, arg := range t.Args {
		if n, err := strconv.Atoi(arg); err == nil {
			tr.Args = append(tr.Args, n)
		}
	}
	return tr
}

// refClauseFrom converts a parsed REFERENCES clause into the foreign
// key target fields. An omitted column list stays empty here; it is
// filled from the target's primary key at validation time.
func refClauseFrom(d *dialect.Dialect, rc *parser.RefClause, con *Constraint) {
	if !rc.Table.Schema.IsZero() {
		con.RefSchema = storedName(d, rc.Table.Schema)
	}
	con.RefTable = storedName(d, rc.Table.Name)
	con.RefColumns = storedNames(d, rc.Columns)
	con.OnDelete = string(rc.OnDelete)
	con.OnUpdate = string(rc.OnUpdate)
}

// extractColumn normalizes a parsed column definition into a Column
// plus the constraint records its inline syntax implies. NOT NULL and
// DEFAULT fold into the column itself and are retained as records only
// when named, so DROP CONSTRAINT can target them.
func extractColumn(d *dialect.Dialect, def *parser.ColumnDef) (*Column, []*Constraint) {
	col := &Column{
		Name: storedName(d, def.Name),
		Type: typeRefFrom(d, def.Type),
		Span: def.Span,
	}

	var cons []*Constraint
	for _, cc := range def.Constraints {
		name := ""
		if !cc.Name.IsZero() {
			name = storedName(d, cc.Name)
		}
		switch cc.Kind {
		case parser.ConstraintNotNull:
			col.NotNull = true
			if name != "" {
				cons = append(cons, &Constraint{
					Kind:    NotNull,
					Name:    name,
					Columns: []string{col.Name},
					Span:    cc.Span,
				})
			}
		case parser.ConstraintNull:
			col.NotNull = false
		case parser.ConstraintDefault:
			col.Default = cc.Expr.Text
			if name != "" {
				cons = append(cons, &Constraint{
					Kind:    Default,
					Name:    name,
					Columns: []string{col.Name},
					Expr:    cc.Expr.Text,
					Span:    cc.Span,
				})
			}
		case parser.ConstraintPrimaryKey:
			cons = append(cons, &Constraint{
				Kind:    PrimaryKey,
				Name:    name,
				Columns: []string{col.Name},
				Span:    cc.Span,
			})
		case parser.ConstraintUnique:
			cons = append(cons, &Constraint{
				Kind:    Unique,
				Name:    name,
				Columns: []string{col.Name},
				Span:    cc.Span,
			})
		case parser.ConstraintCheck:
			cons = append(cons, &Constraint{
				Kind:    Check,
				Name:    name,
				Columns: []string{col.Name},
				Expr:    cc.Expr.Text,
				Span:    cc.Span,
			})
		case parser.ConstraintForeignKey:
			fk := &Constraint{
				Kind:    ForeignKey,
				Name:    name,
				Columns: []string{col.Name},
				Span:    cc.Span,
			}
			refClauseFrom(d, cc.References, fk)
			cons = append(cons, fk)
		}
	}
	return col, cons
}

// extractTableConstraint normalizes a table-level constraint element.
// MySQL inline KEY/INDEX elements come back as an Index instead of a
// Constraint.
func extractTableConstraint(d *dialect.Dialect, tc *parser.TableConstraint) (*Constraint, *Index) {
	name := ""
	if !tc.Name.IsZero() {
		name = storedName(d, tc.Name)
	}

	if tc.Kind == parser.ConstraintIndex {
		return nil, &Index{
			Name:    name,
			Columns: storedNames(d, tc.Columns),
			Unique:  tc.Unique,
			Span:    tc.Span,
		}
	}

	con := &Constraint{
		Name:    name,
		Columns: storedNames(d, tc.Columns),
		Span:    tc.Span,
	}
	switch tc.Kind {
	case parser.ConstraintPrimaryKey:
		con.Kind = PrimaryKey
	case parser.ConstraintUnique:
		con.Kind = Unique
	case parser.ConstraintCheck:
		con.Kind = Check
		con.Expr = tc.Expr.Text
	case parser.ConstraintForeignKey:
		con.Kind = ForeignKey
		refClauseFrom(d, tc.References, con)
	}
	return con, nil
}

// generatedConstraintName builds the deterministic engine-style name
// for an unnamed constraint: users_pkey, orders_user_id_fkey,
// users_email_key, products_price_check.
func generatedConstraintName(table string, kind ConstraintKind, cols []string) string {
	joined := strings.Join(cols, "_")
	switch kind {
	case PrimaryKey:
		return table + "_pkey"
	case ForeignKey:
		return table + "_" + joined + "_fkey"
	case Unique:
		return table + "_" + joined + "_key"
	case Check:
		if joined == "" {
			return table + "_check"
		}
		return table + "_" + joined + "_check"
	case NotNull:
		return table + "_" + joined + "_not_null"
	case Default:
		return table + "_" + joined + "_default"
	}
	return table + "_constraint"
}

// generatedIndexName builds the deterministic name for an unnamed
// index: users_email_idx.
func generatedIndexName(table string, cols []string) string {
	return table + "_" + strings.Join(cols, "_") + "_idx"
}
