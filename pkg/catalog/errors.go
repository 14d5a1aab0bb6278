package catalog

import (
	"fmt"
	"strings"

	"github.com/fernwood-labs/schemacat/pkg/token"
)

// ErrorKind classifies a semantic error raised while applying a
// statement to the catalog.
type ErrorKind int

const (
	// DuplicateTable is raised when a CREATE TABLE names a table that
	// already exists in the target schema.
	DuplicateTable ErrorKind = iota
	// DuplicateColumn is raised when a column name is declared twice.
	DuplicateColumn
	// DuplicateSchema is raised when CREATE SCHEMA names an existing schema.
	DuplicateSchema
	// DuplicateType is raised when CREATE TYPE names an existing type.
	DuplicateType
	// UnknownType is raised when a column type resolves to neither a
	// dialect built-in nor a declared enum type.
	UnknownType
	// UndefinedTable is raised when a statement targets a missing table.
	UndefinedTable
	// UndefinedColumn is raised when a statement targets a missing column.
	UndefinedColumn
	// UndefinedConstraint is raised when DROP CONSTRAINT targets a
	// missing constraint.
	UndefinedConstraint
	// UndefinedIndex is raised when DROP INDEX targets a missing index.
	UndefinedIndex
	// UndefinedSchema is raised when a statement targets a missing schema.
	UndefinedSchema
	// DanglingForeignKey is raised when a foreign key cannot resolve
	// against the referenced table's primary key, a unique constraint,
	// or a unique index, or when a drop would leave one unresolvable.
	DanglingForeignKey
	// ConstraintConflict is raised for conflicting constraint
	// declarations: a second primary key, a duplicate constraint or
	// index name, or a drop blocked by a dependent constraint.
	ConstraintConflict
	// UnsupportedConstruct is raised for statements the parser accepts
	// but the catalog cannot model.
	UnsupportedConstruct
)

var errorKindNames = map[ErrorKind]string{
	DuplicateTable:       "DuplicateTable",
	DuplicateColumn:      "DuplicateColumn",
	DuplicateSchema:      "DuplicateSchema",
	DuplicateType:        "DuplicateType",
	UnknownType:          "UnknownType",
	UndefinedTable:       "UndefinedTable",
	UndefinedColumn:      "UndefinedColumn",
	UndefinedConstraint:  "UndefinedConstraint",
	UndefinedIndex:       "UndefinedIndex",
	UndefinedSchema:      "UndefinedSchema",
	DanglingForeignKey:   "DanglingForeignKey",
	ConstraintConflict:   "ConstraintConflict",
	UnsupportedConstruct: "UnsupportedConstruct",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// SemanticError reports a statement that parsed but cannot be applied
// to the current catalog state. Pos locates the offending construct in
// the original input.
type SemanticError struct {
	Kind    ErrorKind
	Pos     token.Position
	Message string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
}

// semErr builds a SemanticError at the given position.
func semErr(kind ErrorKind, pos token.Position, format string, args ...any) *SemanticError {
	return &SemanticError{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// DependencyCycleError reports a foreign-key cycle that prevents a
// dependency ordering of the catalog's tables.
type DependencyCycleError struct {
	Tables []string // qualified names of the tables on the cycle
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("foreign key cycle among tables: %s", strings.Join(e.Tables, ", "))
}

// Common error messages
const (
	ErrTableExists      = "table %s already exists"
	ErrColumnExists     = "column %s already exists on table %s"
	ErrSchemaExists     = "schema %s already exists"
	ErrUnknownType      = "unknown data type %s for column %s"
	ErrNoSuchTable      = "table %s does not exist"
	ErrNoSuchColumn     = "column %s does not exist on table %s"
	ErrNoSuchConstraint = "constraint %s does not exist on table %s"
	ErrNoSuchIndex      = "index %s does not exist"
	ErrNoSuchSchema     = "schema %s does not exist"
	ErrFKTargetTable    = "foreign key on %s references missing table %s"
	ErrFKTargetColumns  = "foreign key on %s references %s (%s), which no primary key, unique constraint, or unique index covers"
	ErrFKArity          = "foreign key on %s lists %d columns but references %d"
	ErrSecondPrimaryKey = "table %s already has a primary key"
	ErrConstraintExists = "constraint %s already exists on table %s"
	ErrIndexExists      = "index %s already exists on table %s"
	ErrTypeExists       = "type %s already exists"
	ErrEmptyEnum        = "enum type %s declares no values"
	ErrSchemaNotEmpty   = "schema %s is not empty"
	ErrColumnInUse      = "column %s on table %s is used by constraint %s"
	ErrIndexBacked      = "index %s on table %s backs a unique constraint"
	ErrRenameDangles    = "rename of %s would leave foreign key %s on %s dangling"
	ErrPKColumnNotNull  = "column %s on table %s is part of the primary key"
)
