package parser

import (
	"strings"

	"github.com/fernwood-labs/schemacat/pkg/token"
)

// Statement represents a single DDL statement.
type Statement interface {
	stmtNode()
	GetSpan() token.Span
}

// AlterAction represents one action within an ALTER TABLE statement.
type AlterAction interface {
	alterActionNode()
}

// NodeInfo provides common fields for all AST nodes.
// Embed this in node types that need position/comment tracking.
type NodeInfo struct {
	Span             token.Span
	LeadingComments  []*token.Comment
	TrailingComments []*token.Comment
}

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() token.Span {
	return n.Span
}

// AddLeadingComment adds a leading comment to the node.
func (n *NodeInfo) AddLeadingComment(c *token.Comment) {
	n.LeadingComments = append(n.LeadingComments, c)
}

// AddTrailingComment adds a trailing comment to the node.
func (n *NodeInfo) AddTrailingComment(c *token.Comment) {
	n.TrailingComments = append(n.TrailingComments, c)
}

// ---------- Names ----------

// Name is a single identifier occurrence. Quoted records whether the
// source wrapped it in identifier quotes, which exempts it from
// dialect case folding.
type Name struct {
	Value  string
	Quoted bool
	Span   token.Span
}

// IsZero returns true for an absent name.
func (n Name) IsZero() bool {
	return n.Value == "" && !n.Quoted
}

func (n Name) String() string {
	return n.Value
}

// ObjectName is a possibly schema-qualified object name.
type ObjectName struct {
	Schema Name // zero when unqualified
	Name   Name
}

// Qualified returns true if the name carries an explicit schema.
func (o ObjectName) Qualified() bool {
	return !o.Schema.IsZero()
}

func (o ObjectName) String() string {
	if o.Qualified() {
		return o.Schema.Value + "." + o.Name.Value
	}
	return o.Name.Value
}

// Span returns the source range covered by the full name.
func (o ObjectName) Span() token.Span {
	if o.Qualified() {
		return token.Span{Start: o.Schema.Span.Start, End: o.Name.Span.End}
	}
	return o.Name.Span
}

// ---------- Statement Types ----------

// CreateTableStmt represents CREATE TABLE.
type CreateTableStmt struct {
	NodeInfo
	Table       ObjectName
	IfNotExists bool
	Columns     []*ColumnDef
	Constraints []*TableConstraint
}

func (*CreateTableStmt) stmtNode() {}

// AlterTableStmt represents ALTER TABLE with one or more actions.
type AlterTableStmt struct {
	NodeInfo
	Table    ObjectName
	IfExists bool
	Actions  []AlterAction
}

func (*AlterTableStmt) stmtNode() {}

// CreateIndexStmt represents CREATE [UNIQUE] INDEX.
type CreateIndexStmt struct {
	NodeInfo
	Name        Name // zero for an unnamed index
	Unique      bool
	IfNotExists bool
	Table       ObjectName
	Columns     []Name
}

func (*CreateIndexStmt) stmtNode() {}

// DropIndexStmt represents DROP INDEX.
type DropIndexStmt struct {
	NodeInfo
	Index    ObjectName
	Table    ObjectName // MySQL DROP INDEX name ON table; zero otherwise
	IfExists bool
	Behavior DropBehavior
}

func (*DropIndexStmt) stmtNode() {}

// CreateSchemaStmt represents CREATE SCHEMA.
type CreateSchemaStmt struct {
	NodeInfo
	Name        Name
	IfNotExists bool
}

func (*CreateSchemaStmt) stmtNode() {}

// DropSchemaStmt represents DROP SCHEMA.
type DropSchemaStmt struct {
	NodeInfo
	Name     Name
	IfExists bool
	Behavior DropBehavior
}

func (*DropSchemaStmt) stmtNode() {}

// CreateTypeStmt represents CREATE TYPE ... AS ENUM.
type CreateTypeStmt struct {
	NodeInfo
	Name   ObjectName
	Values []string
}

func (*CreateTypeStmt) stmtNode() {}

// DropTableStmt represents DROP TABLE, possibly naming several tables.
type DropTableStmt struct {
	NodeInfo
	Tables   []ObjectName
	IfExists bool
	Behavior DropBehavior
}

func (*DropTableStmt) stmtNode() {}

// ---------- ALTER TABLE Actions ----------

// AddColumnAction represents ADD [COLUMN] <def>.
type AddColumnAction struct {
	IfNotExists bool
	Column      *ColumnDef
}

func (*AddColumnAction) alterActionNode() {}

// DropColumnAction represents DROP [COLUMN] <name>.
type DropColumnAction struct {
	IfExists bool
	Column   Name
	Behavior DropBehavior
}

func (*DropColumnAction) alterActionNode() {}

// AddConstraintAction represents ADD [CONSTRAINT <name>] <constraint>.
type AddConstraintAction struct {
	Constraint *TableConstraint
}

func (*AddConstraintAction) alterActionNode() {}

// DropConstraintAction represents DROP CONSTRAINT <name>.
type DropConstraintAction struct {
	IfExists   bool
	Constraint Name
	Behavior   DropBehavior
}

func (*DropConstraintAction) alterActionNode() {}

// RenameTableAction represents RENAME TO <name>.
type RenameTableAction struct {
	NewName Name
}

func (*RenameTableAction) alterActionNode() {}

// RenameColumnAction represents RENAME [COLUMN] <from> TO <to>.
type RenameColumnAction struct {
	From Name
	To   Name
}

func (*RenameColumnAction) alterActionNode() {}

// AlterColumnOp enumerates the supported ALTER COLUMN operations.
type AlterColumnOp int

// AlterColumnOp constants.
const (
	AlterSetNotNull AlterColumnOp = iota
	AlterDropNotNull
	AlterSetDefault
	AlterDropDefault
)

func (op AlterColumnOp) String() string {
	switch op {
	case AlterSetNotNull:
		return "SET NOT NULL"
	case AlterDropNotNull:
		return "DROP NOT NULL"
	case AlterSetDefault:
		return "SET DEFAULT"
	case AlterDropDefault:
		return "DROP DEFAULT"
	}
	return "UNKNOWN"
}

// AlterColumnAction represents ALTER [COLUMN] <name> <op>.
type AlterColumnAction struct {
	Column  Name
	Op      AlterColumnOp
	Default *RawExpr // for SET DEFAULT
}

func (*AlterColumnAction) alterActionNode() {}

// ---------- Table Elements ----------

// ColumnDef represents one column definition in CREATE TABLE or
// ALTER TABLE ADD COLUMN.
type ColumnDef struct {
	NodeInfo
	Name        Name
	Type        *TypeName
	Constraints []*ColumnConstraint
}

// TypeName represents a column data type as written. Unquoted names
// are canonicalized to their lowercase multi-word form ("double
// precision", "timestamp with time zone"); quoted names keep their
// spelling. Schema is set for schema-qualified user-defined types.
type TypeName struct {
	Schema    Name // zero unless the type is schema-qualified
	Name      string
	Quoted    bool     // quoted type name, exempt from case folding
	Args      []string // length/precision/enum values as written
	Modifiers []string // dialect modifiers such as MySQL "unsigned"
	ArrayDims int      // number of [] suffixes
	Span      token.Span
}

func (t *TypeName) String() string {
	var sb strings.Builder
	if !t.Schema.IsZero() {
		sb.WriteString(t.Schema.Value)
		sb.WriteByte('.')
	}
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteByte('(')
		sb.WriteString(strings.Join(t.Args, ", "))
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

// ConstraintKind enumerates the constraint forms the parser produces.
type ConstraintKind int

// ConstraintKind constants.
const (
	ConstraintPrimaryKey ConstraintKind = iota
	ConstraintForeignKey
	ConstraintUnique
	ConstraintCheck
	ConstraintNotNull
	ConstraintNull
	ConstraintDefault
	ConstraintIndex // inline KEY/INDEX element (MySQL)
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintPrimaryKey:
		return "PRIMARY KEY"
	case ConstraintForeignKey:
		return "FOREIGN KEY"
	case ConstraintUnique:
		return "UNIQUE"
	case ConstraintCheck:
		return "CHECK"
	case ConstraintNotNull:
		return "NOT NULL"
	case ConstraintNull:
		return "NULL"
	case ConstraintDefault:
		return "DEFAULT"
	case ConstraintIndex:
		return "INDEX"
	}
	return "UNKNOWN"
}

// ColumnConstraint represents a constraint attached to a single column
// definition.
type ColumnConstraint struct {
	Span       token.Span
	Name       Name // from CONSTRAINT <name>, optional
	Kind       ConstraintKind
	Expr       *RawExpr   // CHECK condition or DEFAULT expression
	References *RefClause // for ConstraintForeignKey
}

// TableConstraint represents a table-level constraint element.
type TableConstraint struct {
	NodeInfo
	Name       Name // optional
	Kind       ConstraintKind
	Columns    []Name
	Expr       *RawExpr   // CHECK condition
	References *RefClause // for ConstraintForeignKey
	Unique     bool       // for ConstraintIndex: UNIQUE KEY form
}

// RefClause represents REFERENCES <table> [(cols)] with optional
// referential actions. An empty column list targets the referenced
// table's primary key.
type RefClause struct {
	Span     token.Span
	Table    ObjectName
	Columns  []Name
	OnDelete RefAction
	OnUpdate RefAction
}

// RefAction is a referential action keyword sequence. The zero value
// means the action was not written.
type RefAction string

// RefAction constants.
const (
	RefNoAction   RefAction = "NO ACTION"
	RefRestrict   RefAction = "RESTRICT"
	RefCascade    RefAction = "CASCADE"
	RefSetNull    RefAction = "SET NULL"
	RefSetDefault RefAction = "SET DEFAULT"
)

// DropBehavior is the trailing CASCADE/RESTRICT modifier on DROP.
type DropBehavior int

// DropBehavior constants.
const (
	DropDefault DropBehavior = iota
	DropCascade
	DropRestrict
)

func (b DropBehavior) String() string {
	switch b {
	case DropCascade:
		return "CASCADE"
	case DropRestrict:
		return "RESTRICT"
	}
	return ""
}

// RawExpr holds an expression kept as opaque source text, such as a
// CHECK condition or DEFAULT value. Text is trimmed; Span covers the
// original source range.
type RawExpr struct {
	Text string
	Span token.Span
}

func (e *RawExpr) String() string {
	return e.Text
}
