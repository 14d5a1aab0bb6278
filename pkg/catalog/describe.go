package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Describe writes a human-readable rendering of the catalog: each
// schema's enum types, then one column table per database table
// followed by its constraints and indexes, in declaration order.
func (c *Catalog) Describe(w io.Writer) {
	if len(c.Tables()) == 0 {
		_, _ = fmt.Fprintln(w, "(no tables)")
		return
	}
	first := true
	for _, s := range c.schemas {
		for _, et := range s.types {
			if !first {
				_, _ = fmt.Fprintln(w)
			}
			first = false
			_, _ = fmt.Fprintf(w, "Type %s.%s AS ENUM (%s)\n",
				s.Name, et.Name, strings.Join(et.Values, ", "))
		}
		for _, t := range s.tables {
			if !first {
				_, _ = fmt.Fprintln(w)
			}
			first = false
			describeTable(w, t)
		}
	}
}

func describeTable(w io.Writer, t *Table) {
	_, _ = fmt.Fprintf(w, "Table %s\n", t.QualifiedName())

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"COLUMN", "TYPE", "NULLABLE", "DEFAULT"})
	for _, col := range t.Columns {
		nullable := "YES"
		if col.NotNull {
			nullable = "NO"
		}
		tw.AppendRow(table.Row{col.Name, col.Type.String(), nullable, col.Default})
	}
	tw.Render()

	for _, con := range t.Constraints {
		_, _ = fmt.Fprintf(w, "  %s\n", con)
	}
	for _, idx := range t.Indexes {
		_, _ = fmt.Fprintf(w, "  %s\n", idx)
	}
}
