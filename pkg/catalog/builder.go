package catalog

import (
	"log/slog"

	"github.com/fernwood-labs/schemacat/pkg/dialect"
	"github.com/fernwood-labs/schemacat/pkg/parser"
)

// UnknownStatementPolicy selects how the builder treats statements
// outside the supported DDL grammar.
type UnknownStatementPolicy int

const (
	// SkipUnknownStatements passes over unsupported statements and
	// applies the rest.
	SkipUnknownStatements UnknownStatementPolicy = iota
	// RejectUnknownStatements fails the input at the first unsupported
	// statement. Statements before it stay applied.
	RejectUnknownStatements
)

// Options configures a Builder.
type Options struct {
	// Dialect controls identifier folding, keyword recognition, and
	// type checking. Required.
	Dialect *dialect.Dialect

	// DefaultSchema is the schema unqualified names resolve against.
	// Empty means the dialect's default.
	DefaultSchema string

	// UnknownStatements selects skip or reject handling for statements
	// the parser does not model.
	UnknownStatements UnknownStatementPolicy

	// CascadeDrops removes dependent foreign keys on DROP instead of
	// failing the statement, as if every DROP carried CASCADE.
	CascadeDrops bool

	// DeferForeignKeys postpones foreign key resolution until
	// Finalize, allowing references to tables declared later.
	DeferForeignKeys bool

	// Logger receives debug output. nil discards.
	Logger *slog.Logger
}

// Builder incrementally applies DDL statements to an owned catalog.
// Not safe for concurrent use.
type Builder struct {
	opts    Options
	dialect *dialect.Dialect
	logger  *slog.Logger
	catalog *Catalog

	defaultSchema    string
	defaultSchemaKey string
}

// NewBuilder creates a builder with an empty catalog.
func NewBuilder(opts Options) (*Builder, error) {
	if opts.Dialect == nil {
		return nil, dialect.ErrDialectRequired
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	ds := opts.DefaultSchema
	if ds == "" {
		ds = opts.Dialect.DefaultSchema
	}
	b := &Builder{
		opts:             opts,
		dialect:          opts.Dialect,
		logger:           opts.Logger,
		catalog:          NewCatalog(opts.Dialect),
		defaultSchema:    ds,
		defaultSchemaKey: opts.Dialect.FoldKey(ds, false),
	}
	b.catalog.defaultSchema = ds
	return b, nil
}

// Catalog returns the catalog under construction. The pointer stays
// valid across ParseSQL calls; contents change as statements apply.
func (b *Builder) Catalog() *Catalog {
	return b.catalog
}

// Dialect returns the builder's dialect.
func (b *Builder) Dialect() *dialect.Dialect {
	return b.dialect
}

// ParseSQL parses the input and applies its statements to the catalog
// in order. The first failure stops the input and is returned;
// statements applied before it remain applied. Each statement is
// atomic: a failing statement leaves no partial changes.
func (b *Builder) ParseSQL(sql string) error {
	p := parser.NewParser(sql, b.dialect)
	stmts, perr := p.ParseStatements()

	// Under the reject policy the parser still runs in skip mode; the
	// builder applies everything before the first skipped statement and
	// then fails, so the error cannot mask earlier valid DDL.
	limit := -1
	var rejectErr *SemanticError
	if b.opts.UnknownStatements == RejectUnknownStatements {
		if sk := p.Skipped(); len(sk) > 0 {
			limit = sk[0].Span.Start.Offset
			rejectErr = semErr(UnsupportedConstruct, sk[0].Span.Start,
				"unsupported statement beginning with %s", sk[0].Lead)
		}
	}

	b.logger.Debug("applying ddl input",
		"statements", len(stmts), "skipped", len(p.Skipped()))

	for _, stmt := range stmts {
		if limit >= 0 && stmt.GetSpan().Start.Offset >= limit {
			break
		}
		if err := b.apply(stmt); err != nil {
			return err
		}
	}
	if rejectErr != nil {
		return rejectErr
	}
	if perr != nil {
		return perr
	}
	return nil
}

// Finalize resolves the foreign keys postponed by DeferForeignKeys,
// sweeping every foreign key in the catalog against its final state.
// On failure the catalog is unchanged and Finalize can be retried
// after more DDL. Idempotent; a no-op without DeferForeignKeys.
func (b *Builder) Finalize() error {
	if !b.opts.DeferForeignKeys {
		return nil
	}
	staged := b.catalog.clone()
	for _, s := range staged.schemas {
		for _, t := range s.tables {
			for _, con := range t.Constraints {
				if con.Kind != ForeignKey {
					continue
				}
				if err := b.resolveForeignKey(staged, t, con); err != nil {
					return err
				}
			}
		}
	}
	b.catalog.adopt(staged)
	return nil
}

// apply stages one statement on a deep copy and commits on success.
func (b *Builder) apply(stmt parser.Statement) error {
	staged := b.catalog.clone()
	if err := b.applyTo(staged, stmt); err != nil {
		return err
	}
	b.catalog.adopt(staged)
	return nil
}

func (b *Builder) applyTo(cat *Catalog, stmt parser.Statement) error {
	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		return b.applyCreateTable(cat, s)
	case *parser.CreateIndexStmt:
		return b.applyCreateIndex(cat, s)
	case *parser.CreateSchemaStmt:
		return b.applyCreateSchema(cat, s)
	case *parser.CreateTypeStmt:
		return b.applyCreateType(cat, s)
	case *parser.AlterTableStmt:
		return b.applyAlterTable(cat, s)
	case *parser.DropTableStmt:
		return b.applyDropTable(cat, s)
	case *parser.DropIndexStmt:
		return b.applyDropIndex(cat, s)
	case *parser.DropSchemaStmt:
		return b.applyDropSchema(cat, s)
	default:
		return semErr(UnsupportedConstruct, stmt.GetSpan().Start,
			"statement type %T cannot be applied", stmt)
	}
}

// objRef resolves a possibly qualified object name to its stored
// display names and lookup keys, defaulting the schema.
type objRef struct {
	schemaName string
	schemaKey  string
	name       string
	key        string
}

func (b *Builder) objRef(on parser.ObjectName) objRef {
	r := objRef{
		name: storedName(b.dialect, on.Name),
		key:  nameKey(b.dialect, on.Name),
	}
	if on.Schema.IsZero() {
		r.schemaName = b.defaultSchema
		r.schemaKey = b.defaultSchemaKey
	} else {
		r.schemaName = storedName(b.dialect, on.Schema)
		r.schemaKey = nameKey(b.dialect, on.Schema)
	}
	return r
}

// cascades reports whether a drop with the given behavior removes
// dependents instead of failing. An explicit CASCADE or RESTRICT wins
// over the CascadeDrops option.
func (b *Builder) cascades(behavior parser.DropBehavior) bool {
	switch behavior {
	case parser.DropCascade:
		return true
	case parser.DropRestrict:
		return false
	}
	return b.opts.CascadeDrops
}
