// Package catalog builds an in-memory database schema catalog from SQL
// DDL statements.
//
// A Builder owns one Catalog and mutates it in place as statements are
// applied:
//
//	b, err := catalog.NewBuilder(catalog.Options{Dialect: postgres.Postgres})
//	if err != nil {
//	    // handle error
//	}
//	if err := b.ParseSQL(ddl); err != nil {
//	    // handle error
//	}
//	cat := b.Catalog()
//
// Statements apply atomically: a statement that fails validation leaves
// no partial artifacts. The first error stops application for that
// input; earlier statements stay applied. The catalog read surface is
// not synchronized; callers serialize access to a builder and its
// catalog.
package catalog

import (
	"strings"

	"github.com/fernwood-labs/schemacat/pkg/dialect"
	"github.com/fernwood-labs/schemacat/pkg/token"
)

// Catalog is the root of the schema model: an ordered collection of
// schemas keyed by dialect-folded name.
type Catalog struct {
	dialect *dialect.Dialect
	// defaultSchema overrides the dialect default for unqualified
	// lookups; set by the owning builder.
	defaultSchema string
	schemas       []*Schema
	byName        map[string]*Schema
}

// Schema owns tables and user-declared enum types, in declaration
// order. Schemas come into being on first reference and disappear only
// via explicit DROP SCHEMA.
type Schema struct {
	Name string

	dialect      *dialect.Dialect
	tables       []*Table
	tablesByName map[string]*Table
	types        []*EnumType
	typesByName  map[string]*EnumType
}

// NewCatalog returns an empty catalog for the given dialect.
func NewCatalog(d *dialect.Dialect) *Catalog {
	return &Catalog{
		dialect: d,
		byName:  make(map[string]*Schema),
	}
}

// Dialect returns the catalog's dialect.
func (c *Catalog) Dialect() *dialect.Dialect {
	return c.dialect
}

// Schemas returns the schemas in declaration order.
func (c *Catalog) Schemas() []*Schema {
	return append([]*Schema(nil), c.schemas...)
}

// Schema returns the named schema, or nil. The exact stored spelling
// matches first, then the dialect-folded form.
func (c *Catalog) Schema(name string) *Schema {
	if s, ok := c.byName[name]; ok {
		return s
	}
	if c.dialect == nil {
		return nil
	}
	return c.byName[c.dialect.FoldKey(name, false)]
}

// DefaultSchema returns the schema unqualified lookups resolve
// against.
func (c *Catalog) DefaultSchema() string {
	if c.defaultSchema != "" {
		return c.defaultSchema
	}
	if c.dialect != nil {
		return c.dialect.DefaultSchema
	}
	return ""
}

// Table returns the named table. An empty schema name selects the
// default schema. Returns nil when either is missing.
func (c *Catalog) Table(schema, name string) *Table {
	if schema == "" {
		schema = c.DefaultSchema()
	}
	s := c.Schema(schema)
	if s == nil {
		return nil
	}
	return s.Table(name)
}

// Resolve looks up a table by its possibly schema-qualified name,
// splitting on the first dot. Unqualified names resolve against the
// dialect's default schema.
func (c *Catalog) Resolve(qualified string) (*Table, error) {
	schema := ""
	name := qualified
	if i := strings.IndexByte(qualified, '.'); i >= 0 {
		schema = qualified[:i]
		name = qualified[i+1:]
	}
	if schema != "" && c.Schema(schema) == nil {
		return nil, semErr(UndefinedSchema, token.Position{}, ErrNoSuchSchema, schema)
	}
	t := c.Table(schema, name)
	if t == nil {
		return nil, semErr(UndefinedTable, token.Position{}, ErrNoSuchTable, qualified)
	}
	return t, nil
}

// Tables returns every table across all schemas, schemas and tables in
// declaration order.
func (c *Catalog) Tables() []*Table {
	var tables []*Table
	for _, s := range c.schemas {
		tables = append(tables, s.tables...)
	}
	return tables
}

// Equal reports structural equality: same schemas, tables, columns,
// constraints, indexes, and types in the same order. Source spans are
// ignored, so catalogs built from reformatted input still compare
// equal.
func (c *Catalog) Equal(other *Catalog) bool {
	if other == nil {
		return false
	}
	if len(c.schemas) != len(other.schemas) {
		return false
	}
	for i, s := range c.schemas {
		if !s.equal(other.schemas[i]) {
			return false
		}
	}
	return true
}

// clone deep-copies the catalog. Statement application stages its
// changes on a clone and commits by adoption.
func (c *Catalog) clone() *Catalog {
	cp := NewCatalog(c.dialect)
	cp.defaultSchema = c.defaultSchema
	keyOf := make(map[*Schema]string, len(c.byName))
	for k, s := range c.byName {
		keyOf[s] = k
	}
	for _, s := range c.schemas {
		sc := s.clone()
		cp.schemas = append(cp.schemas, sc)
		cp.byName[keyOf[s]] = sc
	}
	return cp
}

// adopt replaces the catalog's contents with the staged copy's. The
// receiver pointer stays valid for callers holding it.
func (c *Catalog) adopt(staged *Catalog) {
	c.schemas = staged.schemas
	c.byName = staged.byName
}

// ensureSchema returns the schema stored under key, creating it with
// the given display name on first reference.
func (c *Catalog) ensureSchema(key, name string) *Schema {
	if s, ok := c.byName[key]; ok {
		return s
	}
	s := &Schema{
		Name:         name,
		dialect:      c.dialect,
		tablesByName: make(map[string]*Table),
		typesByName:  make(map[string]*EnumType),
	}
	c.schemas = append(c.schemas, s)
	c.byName[key] = s
	return s
}

// removeSchema drops the schema stored under key.
func (c *Catalog) removeSchema(key string) {
	s, ok := c.byName[key]
	if !ok {
		return
	}
	delete(c.byName, key)
	for i, existing := range c.schemas {
		if existing == s {
			c.schemas = append(c.schemas[:i], c.schemas[i+1:]...)
			return
		}
	}
}

// Tables returns the schema's tables in declaration order.
func (s *Schema) Tables() []*Table {
	return append([]*Table(nil), s.tables...)
}

// Table returns the named table, or nil.
func (s *Schema) Table(name string) *Table {
	if t, ok := s.tablesByName[name]; ok {
		return t
	}
	if s.dialect == nil {
		return nil
	}
	return s.tablesByName[s.dialect.FoldKey(name, false)]
}

// Types returns the schema's declared enum types in declaration order.
func (s *Schema) Types() []*EnumType {
	return append([]*EnumType(nil), s.types...)
}

// Type returns the named enum type, or nil.
func (s *Schema) Type(name string) *EnumType {
	if t, ok := s.typesByName[name]; ok {
		return t
	}
	if s.dialect == nil {
		return nil
	}
	return s.typesByName[s.dialect.FoldKey(name, false)]
}

// Empty reports whether the schema holds no tables and no types.
func (s *Schema) Empty() bool {
	return len(s.tables) == 0 && len(s.types) == 0
}

func (s *Schema) clone() *Schema {
	cp := &Schema{
		Name:         s.Name,
		dialect:      s.dialect,
		tablesByName: make(map[string]*Table, len(s.tables)),
		typesByName:  make(map[string]*EnumType, len(s.types)),
	}
	tableKey := make(map[*Table]string, len(s.tablesByName))
	for k, t := range s.tablesByName {
		tableKey[t] = k
	}
	for _, t := range s.tables {
		tc := t.clone()
		cp.tables = append(cp.tables, tc)
		cp.tablesByName[tableKey[t]] = tc
	}
	typeKey := make(map[*EnumType]string, len(s.typesByName))
	for k, t := range s.typesByName {
		typeKey[t] = k
	}
	for _, t := range s.types {
		tc := t.clone()
		cp.types = append(cp.types, tc)
		cp.typesByName[typeKey[t]] = tc
	}
	return cp
}

func (s *Schema) equal(o *Schema) bool {
	if s.Name != o.Name || len(s.tables) != len(o.tables) || len(s.types) != len(o.types) {
		return false
	}
	for i, t := range s.tables {
		if !t.equal(o.tables[i]) {
			return false
		}
	}
	for i, t := range s.types {
		if !t.equal(o.types[i]) {
			return false
		}
	}
	return true
}

// addTable registers a table under its lookup key. The caller has
// already checked for duplicates.
func (s *Schema) addTable(key string, t *Table) {
	s.tables = append(s.tables, t)
	s.tablesByName[key] = t
}

// removeTable drops the table stored under key.
func (s *Schema) removeTable(key string) {
	t, ok := s.tablesByName[key]
	if !ok {
		return
	}
	delete(s.tablesByName, key)
	for i, existing := range s.tables {
		if existing == t {
			s.tables = append(s.tables[:i], s.tables[i+1:]...)
			return
		}
	}
}

// addType registers an enum type under its lookup key.
func (s *Schema) addType(key string, t *EnumType) {
	s.types = append(s.types, t)
	s.typesByName[key] = t
}
