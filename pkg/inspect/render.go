package inspect

import (
	"strings"

	"github.com/fernwood-labs/schemacat/pkg/dialect"
)

// RenderDDL serializes introspected metadata back into DDL text for
// the catalog builder. Identifiers are quoted so spellings survive the
// round trip; type names, default expressions, and check expressions
// pass through as the engine reported them.
//
// Foreign keys referencing a schema outside the rendered set are
// omitted: their targets were not inspected and can never resolve.
func RenderDDL(schemas []*SchemaInfo, d *dialect.Dialect) string {
	inSet := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		inSet[s.Name] = true
	}

	var sb strings.Builder
	for _, s := range schemas {
		if s.Name != d.DefaultSchema {
			sb.WriteString("CREATE SCHEMA IF NOT EXISTS ")
			sb.WriteString(d.QuoteIdentifier(s.Name))
			sb.WriteString(";\n")
		}
	}
	for _, s := range schemas {
		for _, et := range s.Types {
			renderType(&sb, s.Name, et, d)
		}
	}
	for _, s := range schemas {
		for i := range s.Tables {
			renderTable(&sb, &s.Tables[i], inSet, d)
		}
	}
	for _, s := range schemas {
		for i := range s.Tables {
			renderIndexes(&sb, &s.Tables[i], d)
		}
	}
	return sb.String()
}

func renderType(sb *strings.Builder, schema string, et TypeInfo, d *dialect.Dialect) {
	sb.WriteString("CREATE TYPE ")
	// Type names stay unquoted: column type references cannot carry
	// quoted qualification, so the declaration must fold the same way.
	if schema != d.DefaultSchema {
		sb.WriteString(schema)
		sb.WriteByte('.')
	}
	sb.WriteString(et.Name)
	sb.WriteString(" AS ENUM (")
	for i, v := range et.Values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('\'')
		sb.WriteString(strings.ReplaceAll(v, "'", "''"))
		sb.WriteByte('\'')
	}
	sb.WriteString(");\n")
}

func renderTable(sb *strings.Builder, t *TableInfo, inSet map[string]bool, d *dialect.Dialect) {
	if len(t.Columns) == 0 {
		return
	}
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(qualified(t.Schema, t.Name, d))
	sb.WriteString(" (\n")

	var clauses []string
	for _, col := range t.Columns {
		clauses = append(clauses, renderColumn(col, d))
	}
	for _, con := range t.Constraints {
		clause, ok := renderConstraint(t, con, inSet, d)
		if ok {
			clauses = append(clauses, clause)
		}
	}
	sb.WriteString(strings.Join(clauses, ",\n"))
	sb.WriteString("\n);\n")
}

func renderColumn(col ColumnInfo, d *dialect.Dialect) string {
	var sb strings.Builder
	sb.WriteString("\t")
	sb.WriteString(d.QuoteIdentifier(col.Name))
	sb.WriteByte(' ')
	sb.WriteString(col.Type)
	if col.NotNull {
		sb.WriteString(" NOT NULL")
	}
	if col.Default != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(col.Default)
	}
	return sb.String()
}

func renderConstraint(t *TableInfo, con ConstraintInfo, inSet map[string]bool, d *dialect.Dialect) (string, bool) {
	if con.Raw != "" {
		return "\t" + con.Raw, true
	}

	var sb strings.Builder
	sb.WriteString("\t")
	if con.Name != "" {
		sb.WriteString("CONSTRAINT ")
		sb.WriteString(d.QuoteIdentifier(con.Name))
		sb.WriteByte(' ')
	}
	switch con.Type {
	case ConstraintPrimaryKey:
		sb.WriteString("PRIMARY KEY (")
		sb.WriteString(quotedList(con.Columns, d))
		sb.WriteByte(')')
	case ConstraintUnique:
		sb.WriteString("UNIQUE (")
		sb.WriteString(quotedList(con.Columns, d))
		sb.WriteByte(')')
	case ConstraintCheck:
		sb.WriteString("CHECK (")
		sb.WriteString(con.Expr)
		sb.WriteByte(')')
	case ConstraintForeignKey:
		refSchema := con.RefSchema
		if refSchema == "" {
			refSchema = t.Schema
		}
		if !inSet[refSchema] {
			return "", false
		}
		sb.WriteString("FOREIGN KEY (")
		sb.WriteString(quotedList(con.Columns, d))
		sb.WriteString(") REFERENCES ")
		sb.WriteString(qualified(refSchema, con.RefTable, d))
		if len(con.RefColumns) > 0 {
			sb.WriteString(" (")
			sb.WriteString(quotedList(con.RefColumns, d))
			sb.WriteByte(')')
		}
		if act := refAction(con.OnDelete); act != "" {
			sb.WriteString(" ON DELETE ")
			sb.WriteString(act)
		}
		if act := refAction(con.OnUpdate); act != "" {
			sb.WriteString(" ON UPDATE ")
			sb.WriteString(act)
		}
	default:
		return "", false
	}
	return sb.String(), true
}

func renderIndexes(sb *strings.Builder, t *TableInfo, d *dialect.Dialect) {
	named := make(map[string]bool, len(t.Constraints))
	for _, con := range t.Constraints {
		if con.Name != "" {
			named[con.Name] = true
		}
	}
	for _, idx := range t.Indexes {
		// A unique constraint's backing index is already implied by
		// the constraint clause.
		if named[idx.Name] || len(idx.Columns) == 0 {
			continue
		}
		if idx.Unique {
			sb.WriteString("CREATE UNIQUE INDEX ")
		} else {
			sb.WriteString("CREATE INDEX ")
		}
		sb.WriteString(d.QuoteIdentifier(idx.Name))
		sb.WriteString(" ON ")
		sb.WriteString(qualified(t.Schema, t.Name, d))
		sb.WriteString(" (")
		sb.WriteString(quotedList(idx.Columns, d))
		sb.WriteString(");\n")
	}
}

// refAction filters referential-action text to the declarable forms;
// engines report "NO ACTION" for unspecified actions.
func refAction(rule string) string {
	switch strings.ToUpper(rule) {
	case "CASCADE", "RESTRICT", "SET NULL", "SET DEFAULT":
		return strings.ToUpper(rule)
	}
	return ""
}

func qualified(schema, name string, d *dialect.Dialect) string {
	if schema == "" {
		return d.QuoteIdentifier(name)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(name)
}

func quotedList(names []string, d *dialect.Dialect) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = d.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}
