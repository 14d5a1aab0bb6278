package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwood-labs/schemacat/pkg/dialect"
	"github.com/fernwood-labs/schemacat/pkg/dialects/ansi"
	"github.com/fernwood-labs/schemacat/pkg/dialects/mysql"
	"github.com/fernwood-labs/schemacat/pkg/dialects/postgres"
	"github.com/fernwood-labs/schemacat/pkg/dialects/sqlite"
	"github.com/fernwood-labs/schemacat/pkg/parser"
)

// parseOne parses input expected to hold exactly one statement.
func parseOne(t *testing.T, sql string, d *dialect.Dialect) parser.Statement {
	t.Helper()
	stmts, err := parser.ParseStatements(sql, d)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	return stmts[0]
}

func TestParseCreateTableColumns(t *testing.T) {
	sql := `CREATE TABLE public.users (
		id bigserial PRIMARY KEY,
		email varchar(255) NOT NULL UNIQUE,
		bio text,
		balance numeric(12,2) DEFAULT 0.00,
		tags text[],
		joined timestamp with time zone DEFAULT now()
	);`
	stmt := parseOne(t, sql, postgres.Postgres)

	ct, ok := stmt.(*parser.CreateTableStmt)
	require.True(t, ok)
	assert.Equal(t, "public", ct.Table.Schema.Value)
	assert.Equal(t, "users", ct.Table.Name.Value)
	assert.False(t, ct.IfNotExists)
	require.Len(t, ct.Columns, 6)
	assert.Empty(t, ct.Constraints)

	id := ct.Columns[0]
	assert.Equal(t, "id", id.Name.Value)
	assert.Equal(t, "bigserial", id.Type.Name)
	require.Len(t, id.Constraints, 1)
	assert.Equal(t, parser.ConstraintPrimaryKey, id.Constraints[0].Kind)

	email := ct.Columns[1]
	assert.Equal(t, "varchar", email.Type.Name)
	assert.Equal(t, []string{"255"}, email.Type.Args)
	require.Len(t, email.Constraints, 2)
	assert.Equal(t, parser.ConstraintNotNull, email.Constraints[0].Kind)
	assert.Equal(t, parser.ConstraintUnique, email.Constraints[1].Kind)

	bio := ct.Columns[2]
	assert.Equal(t, "text", bio.Type.Name)
	assert.Empty(t, bio.Constraints)

	balance := ct.Columns[3]
	assert.Equal(t, "numeric", balance.Type.Name)
	assert.Equal(t, []string{"12", "2"}, balance.Type.Args)
	require.Len(t, balance.Constraints, 1)
	assert.Equal(t, parser.ConstraintDefault, balance.Constraints[0].Kind)
	assert.Equal(t, "0.00", balance.Constraints[0].Expr.Text)

	tags := ct.Columns[4]
	assert.Equal(t, "text", tags.Type.Name)
	assert.Equal(t, 1, tags.Type.ArrayDims)

	joined := ct.Columns[5]
	assert.Equal(t, "timestamp with time zone", joined.Type.Name)
	require.Len(t, joined.Constraints, 1)
	assert.Equal(t, "now()", joined.Constraints[0].Expr.Text)
}

func TestParseCreateTableConstraints(t *testing.T) {
	sql := `CREATE TABLE order_items (
		order_id int NOT NULL,
		product_id int NOT NULL,
		qty int DEFAULT 1,
		CONSTRAINT order_items_pk PRIMARY KEY (order_id, product_id),
		CONSTRAINT qty_positive CHECK (qty > 0),
		FOREIGN KEY (order_id) REFERENCES orders (id) ON DELETE CASCADE ON UPDATE NO ACTION,
		UNIQUE (product_id, order_id)
	);`
	stmt := parseOne(t, sql, ansi.ANSI)

	ct := stmt.(*parser.CreateTableStmt)
	require.Len(t, ct.Columns, 3)
	require.Len(t, ct.Constraints, 4)

	pk := ct.Constraints[0]
	assert.Equal(t, parser.ConstraintPrimaryKey, pk.Kind)
	assert.Equal(t, "order_items_pk", pk.Name.Value)
	require.Len(t, pk.Columns, 2)
	assert.Equal(t, "order_id", pk.Columns[0].Value)
	assert.Equal(t, "product_id", pk.Columns[1].Value)

	check := ct.Constraints[1]
	assert.Equal(t, parser.ConstraintCheck, check.Kind)
	assert.Equal(t, "qty_positive", check.Name.Value)
	assert.Equal(t, "qty > 0", check.Expr.Text)

	fk := ct.Constraints[2]
	assert.Equal(t, parser.ConstraintForeignKey, fk.Kind)
	assert.True(t, fk.Name.IsZero())
	require.Len(t, fk.Columns, 1)
	require.NotNil(t, fk.References)
	assert.Equal(t, "orders", fk.References.Table.Name.Value)
	require.Len(t, fk.References.Columns, 1)
	assert.Equal(t, "id", fk.References.Columns[0].Value)
	assert.Equal(t, parser.RefCascade, fk.References.OnDelete)
	assert.Equal(t, parser.RefNoAction, fk.References.OnUpdate)

	uq := ct.Constraints[3]
	assert.Equal(t, parser.ConstraintUnique, uq.Kind)
	// Declared column order is preserved
	assert.Equal(t, "product_id", uq.Columns[0].Value)
	assert.Equal(t, "order_id", uq.Columns[1].Value)
}

func TestParseColumnDefaults(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{name: "null literal", expr: "NULL", want: "NULL"},
		{name: "string", expr: "'n/a'", want: "'n/a'"},
		{name: "number", expr: "42", want: "42"},
		{name: "negative number", expr: "-1", want: "-1"},
		{name: "function call", expr: "now()", want: "now()"},
		{name: "parenthesized", expr: "(1 + 2)", want: "(1 + 2)"},
		{name: "cast", expr: "'{}'::jsonb", want: "'{}'::jsonb"},
		{name: "bare identifier", expr: "CURRENT_TIMESTAMP", want: "CURRENT_TIMESTAMP"},
		{name: "concat", expr: "'a' || 'b'", want: "'a' || 'b'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := "CREATE TABLE t (c text DEFAULT " + tt.expr + " NOT NULL)"
			stmt := parseOne(t, sql, postgres.Postgres)

			ct := stmt.(*parser.CreateTableStmt)
			require.Len(t, ct.Columns, 1)
			cons := ct.Columns[0].Constraints
			require.Len(t, cons, 2, "DEFAULT then NOT NULL")
			assert.Equal(t, parser.ConstraintDefault, cons[0].Kind)
			require.NotNil(t, cons[0].Expr)
			assert.Equal(t, tt.want, cons[0].Expr.Text)
			assert.Equal(t, parser.ConstraintNotNull, cons[1].Kind)
		})
	}
}

func TestParseNamedInlineConstraints(t *testing.T) {
	sql := `CREATE TABLE t (
		id int CONSTRAINT t_id_nn NOT NULL CONSTRAINT t_id_pk PRIMARY KEY,
		v int CONSTRAINT v_pos CHECK (v >= 0)
	)`
	stmt := parseOne(t, sql, ansi.ANSI)

	ct := stmt.(*parser.CreateTableStmt)
	id := ct.Columns[0]
	require.Len(t, id.Constraints, 2)
	assert.Equal(t, "t_id_nn", id.Constraints[0].Name.Value)
	assert.Equal(t, parser.ConstraintNotNull, id.Constraints[0].Kind)
	assert.Equal(t, "t_id_pk", id.Constraints[1].Name.Value)
	assert.Equal(t, parser.ConstraintPrimaryKey, id.Constraints[1].Kind)

	v := ct.Columns[1]
	require.Len(t, v.Constraints, 1)
	assert.Equal(t, "v_pos", v.Constraints[0].Name.Value)
	assert.Equal(t, "v >= 0", v.Constraints[0].Expr.Text)
}

func TestParseInlineReferences(t *testing.T) {
	sql := `CREATE TABLE memberships (
		uid int REFERENCES users,
		gid int REFERENCES groups (id) ON DELETE SET NULL
	)`
	stmt := parseOne(t, sql, ansi.ANSI)

	ct := stmt.(*parser.CreateTableStmt)
	uid := ct.Columns[0].Constraints[0]
	assert.Equal(t, parser.ConstraintForeignKey, uid.Kind)
	require.NotNil(t, uid.References)
	assert.Equal(t, "users", uid.References.Table.Name.Value)
	assert.Empty(t, uid.References.Columns, "bare REFERENCES targets the primary key")

	gid := ct.Columns[1].Constraints[0]
	require.NotNil(t, gid.References)
	require.Len(t, gid.References.Columns, 1)
	assert.Equal(t, parser.RefSetNull, gid.References.OnDelete)
	assert.Equal(t, parser.RefAction(""), gid.References.OnUpdate)
}

func TestParseAlterTable(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		check func(t *testing.T, stmt *parser.AlterTableStmt)
	}{
		{
			name: "add column",
			sql:  "ALTER TABLE t ADD COLUMN created_at timestamp NOT NULL",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				require.Len(t, stmt.Actions, 1)
				a := stmt.Actions[0].(*parser.AddColumnAction)
				assert.Equal(t, "created_at", a.Column.Name.Value)
				assert.Equal(t, "timestamp", a.Column.Type.Name)
				require.Len(t, a.Column.Constraints, 1)
			},
		},
		{
			name: "add column without keyword",
			sql:  "ALTER TABLE t ADD flag boolean",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.AddColumnAction)
				assert.Equal(t, "flag", a.Column.Name.Value)
			},
		},
		{
			name: "add column if not exists",
			sql:  "ALTER TABLE t ADD COLUMN IF NOT EXISTS flag boolean",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.AddColumnAction)
				assert.True(t, a.IfNotExists)
			},
		},
		{
			name: "drop column",
			sql:  "ALTER TABLE t DROP COLUMN old_field CASCADE",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.DropColumnAction)
				assert.Equal(t, "old_field", a.Column.Value)
				assert.Equal(t, parser.DropCascade, a.Behavior)
			},
		},
		{
			name: "drop column bare",
			sql:  "ALTER TABLE t DROP old_field",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.DropColumnAction)
				assert.Equal(t, "old_field", a.Column.Value)
				assert.Equal(t, parser.DropDefault, a.Behavior)
			},
		},
		{
			name: "add constraint",
			sql:  "ALTER TABLE t ADD CONSTRAINT t_uid_fk FOREIGN KEY (uid) REFERENCES users (id)",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.AddConstraintAction)
				assert.Equal(t, "t_uid_fk", a.Constraint.Name.Value)
				assert.Equal(t, parser.ConstraintForeignKey, a.Constraint.Kind)
			},
		},
		{
			name: "add unnamed primary key",
			sql:  "ALTER TABLE t ADD PRIMARY KEY (id)",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.AddConstraintAction)
				assert.Equal(t, parser.ConstraintPrimaryKey, a.Constraint.Kind)
			},
		},
		{
			name: "drop constraint",
			sql:  "ALTER TABLE t DROP CONSTRAINT t_uid_fk",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.DropConstraintAction)
				assert.Equal(t, "t_uid_fk", a.Constraint.Value)
			},
		},
		{
			name: "rename table",
			sql:  "ALTER TABLE t RENAME TO t_old",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.RenameTableAction)
				assert.Equal(t, "t_old", a.NewName.Value)
			},
		},
		{
			name: "rename column",
			sql:  "ALTER TABLE t RENAME COLUMN a TO b",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.RenameColumnAction)
				assert.Equal(t, "a", a.From.Value)
				assert.Equal(t, "b", a.To.Value)
			},
		},
		{
			name: "rename column without keyword",
			sql:  "ALTER TABLE t RENAME a TO b",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.RenameColumnAction)
				assert.Equal(t, "a", a.From.Value)
			},
		},
		{
			name: "set not null",
			sql:  "ALTER TABLE t ALTER COLUMN c SET NOT NULL",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.AlterColumnAction)
				assert.Equal(t, parser.AlterSetNotNull, a.Op)
			},
		},
		{
			name: "drop not null",
			sql:  "ALTER TABLE t ALTER c DROP NOT NULL",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.AlterColumnAction)
				assert.Equal(t, parser.AlterDropNotNull, a.Op)
				assert.Equal(t, "c", a.Column.Value)
			},
		},
		{
			name: "set default",
			sql:  "ALTER TABLE t ALTER COLUMN c SET DEFAULT 'x'",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.AlterColumnAction)
				assert.Equal(t, parser.AlterSetDefault, a.Op)
				require.NotNil(t, a.Default)
				assert.Equal(t, "'x'", a.Default.Text)
			},
		},
		{
			name: "drop default",
			sql:  "ALTER TABLE t ALTER COLUMN c DROP DEFAULT",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				a := stmt.Actions[0].(*parser.AlterColumnAction)
				assert.Equal(t, parser.AlterDropDefault, a.Op)
			},
		},
		{
			name: "multiple actions",
			sql:  "ALTER TABLE t ADD COLUMN a int, ADD COLUMN b int, DROP COLUMN c",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				require.Len(t, stmt.Actions, 3)
				assert.IsType(t, &parser.AddColumnAction{}, stmt.Actions[0])
				assert.IsType(t, &parser.AddColumnAction{}, stmt.Actions[1])
				assert.IsType(t, &parser.DropColumnAction{}, stmt.Actions[2])
			},
		},
		{
			name: "if exists",
			sql:  "ALTER TABLE IF EXISTS t ADD COLUMN a int",
			check: func(t *testing.T, stmt *parser.AlterTableStmt) {
				assert.True(t, stmt.IfExists)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := parseOne(t, tt.sql, ansi.ANSI)
			at, ok := stmt.(*parser.AlterTableStmt)
			require.True(t, ok)
			assert.Equal(t, "t", at.Table.Name.Value)
			tt.check(t, at)
		})
	}
}

func TestParseCreateIndex(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		check func(t *testing.T, stmt *parser.CreateIndexStmt)
	}{
		{
			name: "plain",
			sql:  "CREATE INDEX idx_users_email ON users (email)",
			check: func(t *testing.T, stmt *parser.CreateIndexStmt) {
				assert.Equal(t, "idx_users_email", stmt.Name.Value)
				assert.False(t, stmt.Unique)
				assert.Equal(t, "users", stmt.Table.Name.Value)
				require.Len(t, stmt.Columns, 1)
				assert.Equal(t, "email", stmt.Columns[0].Value)
			},
		},
		{
			name: "unique composite",
			sql:  "CREATE UNIQUE INDEX uq ON t (a, b)",
			check: func(t *testing.T, stmt *parser.CreateIndexStmt) {
				assert.True(t, stmt.Unique)
				require.Len(t, stmt.Columns, 2)
				assert.Equal(t, "a", stmt.Columns[0].Value)
				assert.Equal(t, "b", stmt.Columns[1].Value)
			},
		},
		{
			name: "if not exists with method and directions",
			sql:  "CREATE INDEX IF NOT EXISTS i ON s.t USING btree (a ASC, b DESC NULLS LAST)",
			check: func(t *testing.T, stmt *parser.CreateIndexStmt) {
				assert.True(t, stmt.IfNotExists)
				assert.Equal(t, "s", stmt.Table.Schema.Value)
				require.Len(t, stmt.Columns, 2)
			},
		},
		{
			name: "unnamed",
			sql:  "CREATE INDEX ON t (a)",
			check: func(t *testing.T, stmt *parser.CreateIndexStmt) {
				assert.True(t, stmt.Name.IsZero())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := parseOne(t, tt.sql, postgres.Postgres)
			ci, ok := stmt.(*parser.CreateIndexStmt)
			require.True(t, ok)
			tt.check(t, ci)
		})
	}
}

func TestParseDropStatements(t *testing.T) {
	t.Run("drop table", func(t *testing.T) {
		stmt := parseOne(t, "DROP TABLE users", ansi.ANSI)
		dt := stmt.(*parser.DropTableStmt)
		require.Len(t, dt.Tables, 1)
		assert.Equal(t, "users", dt.Tables[0].Name.Value)
		assert.False(t, dt.IfExists)
		assert.Equal(t, parser.DropDefault, dt.Behavior)
	})

	t.Run("drop multiple tables cascade", func(t *testing.T) {
		stmt := parseOne(t, "DROP TABLE IF EXISTS a, s.b CASCADE", ansi.ANSI)
		dt := stmt.(*parser.DropTableStmt)
		require.Len(t, dt.Tables, 2)
		assert.True(t, dt.IfExists)
		assert.Equal(t, "s", dt.Tables[1].Schema.Value)
		assert.Equal(t, parser.DropCascade, dt.Behavior)
	})

	t.Run("drop index", func(t *testing.T) {
		stmt := parseOne(t, "DROP INDEX IF EXISTS idx_users_email", postgres.Postgres)
		di := stmt.(*parser.DropIndexStmt)
		assert.Equal(t, "idx_users_email", di.Index.Name.Value)
		assert.True(t, di.IfExists)
	})

	t.Run("drop index on table", func(t *testing.T) {
		stmt := parseOne(t, "DROP INDEX idx_name ON users", mysql.MySQL)
		di := stmt.(*parser.DropIndexStmt)
		assert.Equal(t, "idx_name", di.Index.Name.Value)
		assert.Equal(t, "users", di.Table.Name.Value)
	})

	t.Run("drop schema restrict", func(t *testing.T) {
		stmt := parseOne(t, "DROP SCHEMA staging RESTRICT", ansi.ANSI)
		ds := stmt.(*parser.DropSchemaStmt)
		assert.Equal(t, "staging", ds.Name.Value)
		assert.Equal(t, parser.DropRestrict, ds.Behavior)
	})
}

func TestParseCreateSchema(t *testing.T) {
	stmt := parseOne(t, "CREATE SCHEMA IF NOT EXISTS analytics", ansi.ANSI)
	cs := stmt.(*parser.CreateSchemaStmt)
	assert.Equal(t, "analytics", cs.Name.Value)
	assert.True(t, cs.IfNotExists)
}

func TestParseCreateType(t *testing.T) {
	stmt := parseOne(t, "CREATE TYPE public.mood AS ENUM ('sad', 'ok', 'happy')", postgres.Postgres)
	ct := stmt.(*parser.CreateTypeStmt)
	assert.Equal(t, "public", ct.Name.Schema.Value)
	assert.Equal(t, "mood", ct.Name.Name.Value)
	assert.Equal(t, []string{"sad", "ok", "happy"}, ct.Values)
}

func TestParseMySQLTable(t *testing.T) {
	sql := "CREATE TABLE `users` (\n" +
		"  `id` bigint unsigned NOT NULL AUTO_INCREMENT,\n" +
		"  `name` varchar(100) NOT NULL,\n" +
		"  PRIMARY KEY (`id`),\n" +
		"  UNIQUE KEY `name_uniq` (`name`),\n" +
		"  KEY `idx_name` (`name`)\n" +
		")"
	stmt := parseOne(t, sql, mysql.MySQL)

	ct := stmt.(*parser.CreateTableStmt)
	assert.Equal(t, "users", ct.Table.Name.Value)
	assert.True(t, ct.Table.Name.Quoted)
	require.Len(t, ct.Columns, 2)

	id := ct.Columns[0]
	assert.Equal(t, "bigint", id.Type.Name)
	assert.Equal(t, []string{"unsigned"}, id.Type.Modifiers)
	// AUTO_INCREMENT is consumed without producing a constraint
	require.Len(t, id.Constraints, 1)
	assert.Equal(t, parser.ConstraintNotNull, id.Constraints[0].Kind)

	require.Len(t, ct.Constraints, 3)
	assert.Equal(t, parser.ConstraintPrimaryKey, ct.Constraints[0].Kind)

	uq := ct.Constraints[1]
	assert.Equal(t, parser.ConstraintUnique, uq.Kind)
	assert.Equal(t, "name_uniq", uq.Name.Value)

	idx := ct.Constraints[2]
	assert.Equal(t, parser.ConstraintIndex, idx.Kind)
	assert.Equal(t, "idx_name", idx.Name.Value)
	assert.False(t, idx.Unique)
	require.Len(t, idx.Columns, 1)
}

func TestParseKeywordColumnNames(t *testing.T) {
	sql := "CREATE TABLE t (key int, action text, no boolean)"
	stmt := parseOne(t, sql, ansi.ANSI)

	ct := stmt.(*parser.CreateTableStmt)
	require.Len(t, ct.Columns, 3)
	assert.Equal(t, "key", ct.Columns[0].Name.Value)
	assert.Equal(t, "action", ct.Columns[1].Name.Value)
	assert.Equal(t, "no", ct.Columns[2].Name.Value)
}

func TestParseColumnNamedKeyWithParameterizedType(t *testing.T) {
	sql := "CREATE TABLE t (key varchar(16), v int)"
	stmt := parseOne(t, sql, postgres.Postgres)

	ct := stmt.(*parser.CreateTableStmt)
	require.Len(t, ct.Columns, 2, "key varchar(16) is a column, not an index")
	assert.Empty(t, ct.Constraints)
	assert.Equal(t, "key", ct.Columns[0].Name.Value)
	assert.Equal(t, "varchar", ct.Columns[0].Type.Name)
	assert.Equal(t, []string{"16"}, ct.Columns[0].Type.Args)
}

func TestParseUnknownStatementsSkipped(t *testing.T) {
	sql := `SELECT * FROM somewhere;
CREATE TABLE t (id int);
GRANT ALL ON t TO joe;
DROP TABLE t;`
	p := parser.NewParser(sql, ansi.ANSI)
	stmts, err := p.ParseStatements()
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.IsType(t, &parser.CreateTableStmt{}, stmts[0])
	assert.IsType(t, &parser.DropTableStmt{}, stmts[1])

	skipped := p.Skipped()
	require.Len(t, skipped, 2)
	assert.Equal(t, "SELECT", skipped[0].Lead)
	assert.Equal(t, "GRANT", skipped[1].Lead)
}

func TestParseUnknownStatementsRejected(t *testing.T) {
	p := parser.NewParser("SELECT 1; CREATE TABLE t (id int);", ansi.ANSI)
	p.RejectUnknown = true
	stmts, err := p.ParseStatements()
	require.Error(t, err)
	assert.Empty(t, stmts)

	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "unsupported statement")
	assert.Equal(t, "CREATE, ALTER or DROP statement", perr.Expected)
}

func TestParseUnknownCreateVariant(t *testing.T) {
	// CREATE VIEW is outside the DDL subset and must not be mis-parsed
	sql := "CREATE VIEW v AS SELECT 1; CREATE TABLE t (id int);"
	p := parser.NewParser(sql, ansi.ANSI)
	stmts, err := p.ParseStatements()
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.IsType(t, &parser.CreateTableStmt{}, stmts[0])
	require.Len(t, p.Skipped(), 1)
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name         string
		sql          string
		wantExpected string
		wantLine     int
	}{
		{
			name:         "missing table name",
			sql:          "CREATE TABLE (id int)",
			wantExpected: "identifier",
			wantLine:     1,
		},
		{
			name:         "unclosed body",
			sql:          "CREATE TABLE t (id int",
			wantExpected: ")",
			wantLine:     1,
		},
		{
			name:         "trailing garbage",
			sql:          "CREATE TABLE t (id int) garbage",
			wantExpected: ";",
			wantLine:     1,
		},
		{
			name:         "bad alter action",
			sql:          "ALTER TABLE t\nFROB x",
			wantExpected: "ADD, DROP, RENAME or ALTER COLUMN",
			wantLine:     2,
		},
		{
			name:         "constraint without columns",
			sql:          "CREATE TABLE t (id int, PRIMARY KEY)",
			wantExpected: "(",
			wantLine:     1,
		},
		{
			name:         "missing type",
			sql:          "CREATE TABLE t (id )",
			wantExpected: "data type",
			wantLine:     1,
		},
		{
			name:         "empty column list",
			sql:          "CREATE INDEX i ON t ()",
			wantExpected: "column name",
			wantLine:     1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseStatements(tt.sql, ansi.ANSI)
			require.Error(t, err)

			var perr *parser.ParseError
			require.ErrorAs(t, err, &perr, "error: %v", err)
			assert.Equal(t, tt.wantExpected, perr.Expected)
			assert.Equal(t, tt.wantLine, perr.Pos.Line)
			assert.Contains(t, perr.Error(), "parse error at line")
		})
	}
}

func TestParseErrorKeepsPriorStatements(t *testing.T) {
	sql := "CREATE TABLE a (id int); CREATE TABLE b ("
	stmts, err := parser.ParseStatements(sql, ansi.ANSI)
	require.Error(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "a", stmts[0].(*parser.CreateTableStmt).Table.Name.Value)
}

func TestParseSurfacesLexError(t *testing.T) {
	sql := "CREATE TABLE t (n text DEFAULT 'oops"
	_, err := parser.ParseStatements(sql, ansi.ANSI)
	require.Error(t, err)

	var lerr *parser.LexError
	require.ErrorAs(t, err, &lerr)
	assert.Contains(t, lerr.Message, "unterminated string literal")
}

func TestParseStatementSpans(t *testing.T) {
	sql := "CREATE TABLE a (id int);\nDROP TABLE a;"
	stmts, err := parser.ParseStatements(sql, ansi.ANSI)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	first := stmts[0].GetSpan()
	assert.Equal(t, "CREATE TABLE a (id int)", sql[first.Start.Offset:first.End.Offset])

	second := stmts[1].GetSpan()
	assert.Equal(t, "DROP TABLE a", sql[second.Start.Offset:second.End.Offset])
	assert.Equal(t, 2, second.Start.Line)
}

func TestParseLeadingComments(t *testing.T) {
	sql := "-- users of the app\n-- keyed by id\nCREATE TABLE users (id int);"
	stmts, err := parser.ParseStatements(sql, ansi.ANSI)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	ct := stmts[0].(*parser.CreateTableStmt)
	require.Len(t, ct.LeadingComments, 2)
	assert.Equal(t, "-- users of the app", ct.LeadingComments[0].Text)
}

func TestParseQualifiedNameErrors(t *testing.T) {
	_, err := parser.ParseStatements("CREATE TABLE a.b.c (id int)", ansi.ANSI)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many parts")

	_, err = parser.ParseStatements(`CREATE TABLE "" (id int)`, ansi.ANSI)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero-length quoted identifier")
}

func TestParseTypeForms(t *testing.T) {
	tests := []struct {
		name     string
		typeSQL  string
		wantName string
		wantArgs []string
		wantDims int
	}{
		{name: "double precision", typeSQL: "double precision", wantName: "double precision"},
		{name: "character varying", typeSQL: "character varying(30)", wantName: "character varying", wantArgs: []string{"30"}},
		{name: "timestamp precision tz", typeSQL: "timestamp(3) with time zone", wantName: "timestamp with time zone", wantArgs: []string{"3"}},
		{name: "timestamp without tz", typeSQL: "timestamp without time zone", wantName: "timestamp without time zone"},
		{name: "array", typeSQL: "int[]", wantName: "int", wantDims: 1},
		{name: "matrix", typeSQL: "int[][]", wantName: "int", wantDims: 2},
		{name: "sized array", typeSQL: "int[3]", wantName: "int", wantDims: 1},
		{name: "uppercase folded", typeSQL: "VARCHAR(10)", wantName: "varchar", wantArgs: []string{"10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := parseOne(t, "CREATE TABLE t (c "+tt.typeSQL+")", postgres.Postgres)
			ct := stmt.(*parser.CreateTableStmt)
			typ := ct.Columns[0].Type
			assert.Equal(t, tt.wantName, typ.Name)
			assert.Equal(t, tt.wantArgs, typ.Args)
			assert.Equal(t, tt.wantDims, typ.ArrayDims)
		})
	}
}

func TestParseSQLiteAffinityTypes(t *testing.T) {
	tests := []struct {
		typeSQL  string
		wantName string
	}{
		{"UNSIGNED BIG INT", "unsigned big int"},
		{"NATIVE CHARACTER(70)", "native character"},
		{"VARYING CHARACTER(255)", "varying character"},
		{"NCHAR(55)", "nchar"},
	}
	for _, tt := range tests {
		t.Run(tt.typeSQL, func(t *testing.T) {
			stmt := parseOne(t, "CREATE TABLE t (c "+tt.typeSQL+")", sqlite.SQLite)
			ct := stmt.(*parser.CreateTableStmt)
			assert.Equal(t, tt.wantName, ct.Columns[0].Type.Name)
		})
	}
}

func TestParseCustomTypes(t *testing.T) {
	stmt := parseOne(t, `CREATE TABLE t (m public.mood, s "Status")`, postgres.Postgres)
	ct := stmt.(*parser.CreateTableStmt)

	m := ct.Columns[0].Type
	assert.Equal(t, "public", m.Schema.Value)
	assert.Equal(t, "mood", m.Name)
	assert.False(t, m.Quoted)

	s := ct.Columns[1].Type
	assert.Equal(t, "Status", s.Name)
	assert.True(t, s.Quoted)
}

func TestParseEmptySources(t *testing.T) {
	for _, sql := range []string{"", "   \n\t", ";;;", "-- only a comment"} {
		stmts, err := parser.ParseStatements(sql, ansi.ANSI)
		require.NoError(t, err, "input %q", sql)
		assert.Empty(t, stmts, "input %q", sql)
	}
}

func TestParseErrorsIsFirstStop(t *testing.T) {
	// Statements after the first error are never parsed
	sql := "CREATE TABLE a (; CREATE TABLE b (id int);"
	p := parser.NewParser(sql, ansi.ANSI)
	stmts, err := p.ParseStatements()
	require.Error(t, err)
	assert.Empty(t, stmts)
	require.Len(t, p.Errors(), 1)
	assert.Same(t, err, p.Errors()[0])
}
