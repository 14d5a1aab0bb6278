package inspect

// Constraint type names as reported by information_schema.
const (
	ConstraintPrimaryKey = "PRIMARY KEY"
	ConstraintForeignKey = "FOREIGN KEY"
	ConstraintUnique     = "UNIQUE"
	ConstraintCheck      = "CHECK"
)

// SchemaInfo is one schema's introspected contents.
type SchemaInfo struct {
	Name   string
	Types  []TypeInfo
	Tables []TableInfo
}

// TypeInfo is a user-declared enum type.
type TypeInfo struct {
	Name   string
	Values []string
}

// TableInfo is one table's introspected shape.
type TableInfo struct {
	Schema      string
	Name        string
	Columns     []ColumnInfo
	Constraints []ConstraintInfo
	Indexes     []IndexInfo
}

// ColumnInfo is a single column as the engine reports it.
type ColumnInfo struct {
	Name string
	// Type is the engine's type text, e.g. "character varying(255)".
	Type    string
	NotNull bool
	// Default is the engine's default expression text; empty means none.
	Default string
}

// ConstraintInfo is a table constraint. Either the typed fields are
// filled, or Raw carries the engine's own constraint text verbatim
// (DuckDB reports constraints that way).
type ConstraintInfo struct {
	Name string
	// Type is one of the Constraint* names above.
	Type    string
	Columns []string

	// Foreign key target; RefColumns ordered as the referenced key.
	RefSchema  string
	RefTable   string
	RefColumns []string
	OnDelete   string
	OnUpdate   string

	// Expr is the check expression text.
	Expr string

	// Raw, when set, is a complete table-constraint clause.
	Raw string
}

// IndexInfo is a secondary index.
type IndexInfo struct {
	Name    string
	Columns []string
	Unique  bool
}
