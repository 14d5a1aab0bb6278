package catalog

import (
	"strconv"
	"strings"

	"github.com/fernwood-labs/schemacat/pkg/dialect"
	"github.com/fernwood-labs/schemacat/pkg/token"
)

// ConstraintKind discriminates the Constraint variant.
type ConstraintKind int

const (
	// PrimaryKey covers the table's primary key, inline or table-level.
	PrimaryKey ConstraintKind = iota
	// ForeignKey covers REFERENCES shorthand and FOREIGN KEY clauses.
	ForeignKey
	// Unique covers UNIQUE constraints; each carries a backing index.
	Unique
	// Check covers CHECK constraints with their unevaluated expression.
	Check
	// NotNull is recorded only for named inline NOT NULL constraints;
	// nullability itself lives on the column.
	NotNull
	// Default is recorded only for named inline DEFAULT constraints;
	// the expression itself lives on the column.
	Default
)

var constraintKindNames = map[ConstraintKind]string{
	PrimaryKey: "PRIMARY KEY",
	ForeignKey: "FOREIGN KEY",
	Unique:     "UNIQUE",
	Check:      "CHECK",
	NotNull:    "NOT NULL",
	Default:    "DEFAULT",
}

func (k ConstraintKind) String() string {
	if name, ok := constraintKindNames[k]; ok {
		return name
	}
	return "ConstraintKind(" + strconv.Itoa(int(k)) + ")"
}

// TypeRef is a resolved reference to a column's data type.
type TypeRef struct {
	// Schema qualifies a user-declared type; empty for built-ins.
	Schema string
	// Name is the canonical type name: lowercased multi-word form for
	// built-ins ("timestamp with time zone"), verbatim for quoted names.
	Name string
	// Args holds the numeric type parameters, e.g. varchar(255) or
	// numeric(12,2). Non-numeric arguments are not modeled.
	Args []int
	// Modifiers holds dialect words that extend the type, such as
	// MySQL "unsigned".
	Modifiers []string
	// ArrayDims counts trailing [] markers.
	ArrayDims int
}

// String renders the type the way it would be written.
func (t TypeRef) String() string {
	var sb strings.Builder
	if t.Schema != "" {
		sb.WriteString(t.Schema)
		sb.WriteByte('.')
	}
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteByte('(')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(a))
		}
		sb.WriteByte(')')
	}
	for _, m := range t.Modifiers {
		sb.WriteByte(' ')
		sb.WriteString(m)
	}
	for i := 0; i < t.ArrayDims; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (t TypeRef) clone() TypeRef {
	c := t
	c.Args = append([]int(nil), t.Args...)
	c.Modifiers = append([]string(nil), t.Modifiers...)
	return c
}

func (t TypeRef) equal(o TypeRef) bool {
	if t.Schema != o.Schema || t.Name != o.Name || t.ArrayDims != o.ArrayDims {
		return false
	}
	return intsEqual(t.Args, o.Args) && stringsEqual(t.Modifiers, o.Modifiers)
}

// Column is one column of a table.
type Column struct {
	Name    string
	Type    TypeRef
	NotNull bool
	// Default is the unevaluated default expression text; empty means
	// no default.
	Default string
	Span    token.Span
}

func (c *Column) clone() *Column {
	cp := *c
	cp.Type = c.Type.clone()
	return &cp
}

func (c *Column) equal(o *Column) bool {
	return c.Name == o.Name && c.NotNull == o.NotNull && c.Default == o.Default &&
		c.Type.equal(o.Type)
}

// Constraint is a single tagged-variant constraint record. Which fields
// are meaningful depends on Kind: Columns for key kinds, RefTable and
// friends for foreign keys, Expr for checks and defaults.
type Constraint struct {
	Kind ConstraintKind
	Name string
	// Columns lists the constrained columns in declared order.
	Columns []string
	// RefSchema/RefTable/RefColumns describe the foreign-key target.
	// RefColumns is filled from the target's primary key when the
	// declaration omitted a column list.
	RefSchema  string
	RefTable   string
	RefColumns []string
	// OnDelete/OnUpdate hold the declared referential actions; empty
	// means unspecified.
	OnDelete string
	OnUpdate string
	// Expr is the unevaluated CHECK or DEFAULT expression text.
	Expr string
	Span token.Span
}

// String renders the constraint roughly the way it could be declared.
func (c *Constraint) String() string {
	var sb strings.Builder
	sb.WriteString("CONSTRAINT ")
	sb.WriteString(c.Name)
	sb.WriteByte(' ')
	sb.WriteString(c.Kind.String())
	if c.Kind == Check {
		sb.WriteString(" (")
		sb.WriteString(c.Expr)
		sb.WriteByte(')')
		return sb.String()
	}
	if len(c.Columns) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(c.Columns, ", "))
		sb.WriteByte(')')
	}
	if c.Kind == ForeignKey {
		sb.WriteString(" REFERENCES ")
		if c.RefSchema != "" {
			sb.WriteString(c.RefSchema)
			sb.WriteByte('.')
		}
		sb.WriteString(c.RefTable)
		if len(c.RefColumns) > 0 {
			sb.WriteString(" (")
			sb.WriteString(strings.Join(c.RefColumns, ", "))
			sb.WriteByte(')')
		}
		if c.OnDelete != "" {
			sb.WriteString(" ON DELETE ")
			sb.WriteString(c.OnDelete)
		}
		if c.OnUpdate != "" {
			sb.WriteString(" ON UPDATE ")
			sb.WriteString(c.OnUpdate)
		}
	}
	return sb.String()
}

func (c *Constraint) clone() *Constraint {
	cp := *c
	cp.Columns = append([]string(nil), c.Columns...)
	cp.RefColumns = append([]string(nil), c.RefColumns...)
	return &cp
}

func (c *Constraint) equal(o *Constraint) bool {
	return c.Kind == o.Kind && c.Name == o.Name &&
		c.RefSchema == o.RefSchema && c.RefTable == o.RefTable &&
		c.OnDelete == o.OnDelete && c.OnUpdate == o.OnUpdate &&
		c.Expr == o.Expr &&
		stringsEqual(c.Columns, o.Columns) && stringsEqual(c.RefColumns, o.RefColumns)
}

// Index is a secondary index on a table. Unique indexes double as
// foreign-key targets.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
	Span    token.Span
}

func (i *Index) String() string {
	kind := "INDEX"
	if i.Unique {
		kind = "UNIQUE INDEX"
	}
	return kind + " " + i.Name + " (" + strings.Join(i.Columns, ", ") + ")"
}

func (i *Index) clone() *Index {
	cp := *i
	cp.Columns = append([]string(nil), i.Columns...)
	return &cp
}

func (i *Index) equal(o *Index) bool {
	return i.Name == o.Name && i.Unique == o.Unique && stringsEqual(i.Columns, o.Columns)
}

// EnumType is a user-declared enumeration type.
type EnumType struct {
	Name   string
	Values []string
	Span   token.Span
}

func (e *EnumType) clone() *EnumType {
	cp := *e
	cp.Values = append([]string(nil), e.Values...)
	return &cp
}

func (e *EnumType) equal(o *EnumType) bool {
	return e.Name == o.Name && stringsEqual(e.Values, o.Values)
}

// Table is one table: ordered columns, constraints, and indexes, with
// O(1) column lookup.
type Table struct {
	// Schema is the owning schema's stored name.
	Schema string
	Name   string

	Columns     []*Column
	Constraints []*Constraint
	Indexes     []*Index

	dialect    *dialect.Dialect
	columnKeys map[string]*Column // folded name → column
	Span       token.Span
}

// QualifiedName returns schema.name.
func (t *Table) QualifiedName() string {
	return t.Schema + "." + t.Name
}

// Column returns the named column, or nil. The exact stored spelling
// matches first; otherwise the name is folded per the dialect, so
// unquoted spellings find case-folded columns.
func (t *Table) Column(name string) *Column {
	if c, ok := t.columnKeys[name]; ok {
		return c
	}
	if t.dialect == nil {
		return nil
	}
	return t.columnKeys[t.dialect.FoldKey(name, false)]
}

// Constraint returns the named constraint, or nil. Lookup folds the
// way Column does: exact stored spelling first, then per the dialect.
func (t *Table) Constraint(name string) *Constraint {
	for _, c := range t.Constraints {
		if c.Name == name {
			return c
		}
	}
	if t.dialect == nil {
		return nil
	}
	key := t.dialect.FoldKey(name, false)
	for _, c := range t.Constraints {
		if t.dialect.FoldKey(c.Name, true) == key {
			return c
		}
	}
	return nil
}

// Index returns the named index, or nil.
func (t *Table) Index(name string) *Index {
	for _, i := range t.Indexes {
		if i.Name == name {
			return i
		}
	}
	if t.dialect == nil {
		return nil
	}
	key := t.dialect.FoldKey(name, false)
	for _, i := range t.Indexes {
		if t.dialect.FoldKey(i.Name, true) == key {
			return i
		}
	}
	return nil
}

// PrimaryKey returns the table's primary key constraint, or nil.
func (t *Table) PrimaryKey() *Constraint {
	for _, c := range t.Constraints {
		if c.Kind == PrimaryKey {
			return c
		}
	}
	return nil
}

// ForeignKeys returns the table's foreign key constraints in
// declaration order.
func (t *Table) ForeignKeys() []*Constraint {
	var fks []*Constraint
	for _, c := range t.Constraints {
		if c.Kind == ForeignKey {
			fks = append(fks, c)
		}
	}
	return fks
}

// UniqueKeySets returns every column set guaranteed unique on the
// table: the primary key, unique constraints, and unique indexes.
// Foreign keys resolve against these sets.
func (t *Table) UniqueKeySets() [][]string {
	var sets [][]string
	for _, c := range t.Constraints {
		if c.Kind == PrimaryKey || c.Kind == Unique {
			sets = append(sets, c.Columns)
		}
	}
	for _, i := range t.Indexes {
		if i.Unique {
			sets = append(sets, i.Columns)
		}
	}
	return sets
}

func (t *Table) clone() *Table {
	cp := &Table{
		Schema:     t.Schema,
		Name:       t.Name,
		Span:       t.Span,
		dialect:    t.dialect,
		columnKeys: make(map[string]*Column, len(t.Columns)),
	}
	keyOf := make(map[*Column]string, len(t.Columns))
	for k, c := range t.columnKeys {
		keyOf[c] = k
	}
	for _, c := range t.Columns {
		col := c.clone()
		cp.Columns = append(cp.Columns, col)
		cp.columnKeys[keyOf[c]] = col
	}
	for _, c := range t.Constraints {
		cp.Constraints = append(cp.Constraints, c.clone())
	}
	for _, i := range t.Indexes {
		cp.Indexes = append(cp.Indexes, i.clone())
	}
	return cp
}

func (t *Table) equal(o *Table) bool {
	if t.Schema != o.Schema || t.Name != o.Name {
		return false
	}
	if len(t.Columns) != len(o.Columns) ||
		len(t.Constraints) != len(o.Constraints) ||
		len(t.Indexes) != len(o.Indexes) {
		return false
	}
	for i, c := range t.Columns {
		if !c.equal(o.Columns[i]) {
			return false
		}
	}
	for i, c := range t.Constraints {
		if !c.equal(o.Constraints[i]) {
			return false
		}
	}
	for i, idx := range t.Indexes {
		if !idx.equal(o.Indexes[i]) {
			return false
		}
	}
	return true
}

// addColumn registers a column under its lookup key. The caller has
// already checked for duplicates.
func (t *Table) addColumn(key string, c *Column) {
	t.Columns = append(t.Columns, c)
	t.columnKeys[key] = c
}

// removeColumn drops the column stored under key, preserving order of
// the rest.
func (t *Table) removeColumn(key string) {
	c, ok := t.columnKeys[key]
	if !ok {
		return
	}
	delete(t.columnKeys, key)
	for i, existing := range t.Columns {
		if existing == c {
			t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
			return
		}
	}
}

// removeConstraintAt drops the i'th constraint.
func (t *Table) removeConstraintAt(i int) {
	t.Constraints = append(t.Constraints[:i], t.Constraints[i+1:]...)
}

// dropConstraintRecord removes a constraint together with its side
// effects: the backing index of a unique constraint, and the column
// state a named NOT NULL or DEFAULT record stands for. Primary key
// membership keeps a column non-nullable regardless.
func (t *Table) dropConstraintRecord(con *Constraint) {
	for i, c := range t.Constraints {
		if c == con {
			t.removeConstraintAt(i)
			break
		}
	}
	switch con.Kind {
	case Unique:
		for i, idx := range t.Indexes {
			if idx.Name == con.Name {
				t.removeIndexAt(i)
				break
			}
		}
	case NotNull:
		for _, name := range con.Columns {
			if c := t.Column(name); c != nil {
				c.NotNull = false
			}
		}
		if pk := t.PrimaryKey(); pk != nil {
			for _, name := range pk.Columns {
				if c := t.Column(name); c != nil {
					c.NotNull = true
				}
			}
		}
	case Default:
		for _, name := range con.Columns {
			if c := t.Column(name); c != nil {
				c.Default = ""
			}
		}
	}
}

// removeIndexAt drops the i'th index.
func (t *Table) removeIndexAt(i int) {
	t.Indexes = append(t.Indexes[:i], t.Indexes[i+1:]...)
}

// columnMarker returns the named NOT NULL or DEFAULT record covering
// the column, if one exists.
func (t *Table) columnMarker(col *Column, kind ConstraintKind) *Constraint {
	for _, con := range t.Constraints {
		if con.Kind != kind {
			continue
		}
		for _, n := range con.Columns {
			if t.Column(n) == col {
				return con
			}
		}
	}
	return nil
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
