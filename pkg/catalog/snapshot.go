package catalog

import (
	"gopkg.in/yaml.v3"
)

// Snapshot types mirror the catalog as plain data for serialization.
// Field order matches declaration order, so two equal catalogs yield
// byte-identical snapshots.

type catalogSnapshot struct {
	Dialect string           `yaml:"dialect,omitempty"`
	Schemas []schemaSnapshot `yaml:"schemas"`
}

type schemaSnapshot struct {
	Name   string          `yaml:"name"`
	Types  []typeSnapshot  `yaml:"types,omitempty"`
	Tables []tableSnapshot `yaml:"tables,omitempty"`
}

type typeSnapshot struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

type tableSnapshot struct {
	Name        string               `yaml:"name"`
	Columns     []columnSnapshot     `yaml:"columns"`
	Constraints []constraintSnapshot `yaml:"constraints,omitempty"`
	Indexes     []indexSnapshot      `yaml:"indexes,omitempty"`
}

type columnSnapshot struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	NotNull bool   `yaml:"not_null,omitempty"`
	Default string `yaml:"default,omitempty"`
}

type constraintSnapshot struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"`
	Columns    []string `yaml:"columns,omitempty"`
	RefTable   string   `yaml:"ref_table,omitempty"`
	RefColumns []string `yaml:"ref_columns,omitempty"`
	OnDelete   string   `yaml:"on_delete,omitempty"`
	OnUpdate   string   `yaml:"on_update,omitempty"`
	Expr       string   `yaml:"expr,omitempty"`
}

type indexSnapshot struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique,omitempty"`
}

// Snapshot serializes the catalog to YAML in declaration order.
// Source spans are not part of the snapshot, so catalogs built from
// reformatted input serialize identically.
func (c *Catalog) Snapshot() ([]byte, error) {
	snap := catalogSnapshot{}
	if c.dialect != nil {
		snap.Dialect = c.dialect.Name
	}
	for _, s := range c.schemas {
		ss := schemaSnapshot{Name: s.Name}
		for _, et := range s.types {
			ss.Types = append(ss.Types, typeSnapshot{
				Name:   et.Name,
				Values: et.Values,
			})
		}
		for _, t := range s.tables {
			ss.Tables = append(ss.Tables, snapshotTable(t))
		}
		snap.Schemas = append(snap.Schemas, ss)
	}
	return yaml.Marshal(snap)
}

func snapshotTable(t *Table) tableSnapshot {
	ts := tableSnapshot{Name: t.Name}
	for _, col := range t.Columns {
		ts.Columns = append(ts.Columns, columnSnapshot{
			Name:    col.Name,
			Type:    col.Type.String(),
			NotNull: col.NotNull,
			Default: col.Default,
		})
	}
	for _, con := range t.Constraints {
		cs := constraintSnapshot{
			Name:       con.Name,
			Kind:       con.Kind.String(),
			Columns:    con.Columns,
			RefColumns: con.RefColumns,
			OnDelete:   con.OnDelete,
			OnUpdate:   con.OnUpdate,
			Expr:       con.Expr,
		}
		if con.Kind == ForeignKey {
			cs.RefTable = con.RefTable
			if con.RefSchema != "" {
				cs.RefTable = con.RefSchema + "." + con.RefTable
			}
		}
		ts.Constraints = append(ts.Constraints, cs)
	}
	for _, idx := range t.Indexes {
		ts.Indexes = append(ts.Indexes, indexSnapshot{
			Name:    idx.Name,
			Columns: idx.Columns,
			Unique:  idx.Unique,
		})
	}
	return ts
}
