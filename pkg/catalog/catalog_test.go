package catalog_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwood-labs/schemacat/pkg/catalog"
	"github.com/fernwood-labs/schemacat/pkg/dialects/postgres"
)

func TestResolve(t *testing.T) {
	cat := build(t, `
		CREATE TABLE users (id int);
		CREATE TABLE app.items (id int);
	`)

	tbl, err := cat.Resolve("users")
	require.NoError(t, err)
	assert.Equal(t, "public.users", tbl.QualifiedName())

	tbl, err = cat.Resolve("app.items")
	require.NoError(t, err)
	assert.Equal(t, "app.items", tbl.QualifiedName())

	_, err = cat.Resolve("missing")
	assert.Equal(t, catalog.UndefinedTable, semKind(t, err))

	_, err = cat.Resolve("nowhere.users")
	assert.Equal(t, catalog.UndefinedSchema, semKind(t, err))
}

func TestEqualDetectsDifferences(t *testing.T) {
	base := build(t, `CREATE TABLE t (a int NOT NULL);`)

	assert.False(t, base.Equal(nil))
	assert.False(t, base.Equal(build(t, `CREATE TABLE t (a int);`)),
		"nullability differs")
	assert.False(t, base.Equal(build(t, `CREATE TABLE t (a bigint NOT NULL);`)),
		"column type differs")
	assert.False(t, base.Equal(build(t, `CREATE TABLE u (a int NOT NULL);`)),
		"table name differs")
	assert.True(t, base.Equal(build(t, `CREATE TABLE t (a int NOT NULL);`)))
}

func TestUniqueKeySets(t *testing.T) {
	cat := build(t, `
		CREATE TABLE t (a int PRIMARY KEY, b int UNIQUE, c int);
		CREATE UNIQUE INDEX t_c ON t (c);
	`)

	sets := cat.Table("", "t").UniqueKeySets()
	assert.Contains(t, sets, []string{"a"})
	assert.Contains(t, sets, []string{"b"})
	assert.Contains(t, sets, []string{"c"})
}

func TestMergeAddsMissingObjects(t *testing.T) {
	base := build(t, `
		CREATE TABLE users (id int PRIMARY KEY);
	`)
	other := build(t, `
		CREATE TABLE users (id int PRIMARY KEY);
		CREATE INDEX users_by_id ON users (id);
		CREATE TABLE posts (id int PRIMARY KEY);
		CREATE TABLE app.items (id int PRIMARY KEY);
	`)

	base.Merge(other)

	assert.NotNil(t, base.Table("", "posts"), "missing tables are merged in")
	assert.NotNil(t, base.Table("app", "items"), "missing schemas are merged in")
	assert.NotNil(t, base.Table("", "users").Index("users_by_id"),
		"existing tables gain the other catalog's indexes")
}

func TestMergeKeepsExistingDefinitions(t *testing.T) {
	base := build(t, `CREATE TABLE t (a int);`)
	other := build(t, `CREATE TABLE t (a bigint, b text);`)

	base.Merge(other)

	tbl := base.Table("", "t")
	assert.Equal(t, "int", tbl.Column("a").Type.Name, "first definition wins")
	assert.Nil(t, tbl.Column("b"))
}

func TestMergeCopiesDeeply(t *testing.T) {
	base := catalog.NewCatalog(postgres.Postgres)
	other := build(t, `CREATE TABLE t (a int);`)

	base.Merge(other)
	other.Table("", "t").Columns[0].Name = "mutated"

	assert.Equal(t, "a", base.Table("", "t").Columns[0].Name)
}

func TestDependencyOrderParentsFirst(t *testing.T) {
	b := newBuilder(t, catalog.Options{
		Dialect:          postgres.Postgres,
		DeferForeignKeys: true,
	})
	require.NoError(t, b.ParseSQL(`
		CREATE TABLE posts (id int PRIMARY KEY, user_id int REFERENCES users (id));
		CREATE TABLE tags (id int PRIMARY KEY);
		CREATE TABLE users (id int PRIMARY KEY, tag int REFERENCES tags (id));
	`))
	require.NoError(t, b.Finalize())

	order, err := b.Catalog().DependencyOrder()
	require.NoError(t, err)

	var names []string
	for _, tbl := range order {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{"tags", "users", "posts"}, names)
}

func TestDependencyOrderKeepsDeclarationOrder(t *testing.T) {
	cat := build(t, `
		CREATE TABLE c (id int);
		CREATE TABLE a (id int);
		CREATE TABLE b (id int);
	`)

	order, err := cat.DependencyOrder()
	require.NoError(t, err)

	var names []string
	for _, tbl := range order {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names,
		"independent tables stay in declaration order")
}

func TestDependencyOrderIgnoresSelfReference(t *testing.T) {
	cat := build(t, `
		CREATE TABLE emp (id int PRIMARY KEY, boss int REFERENCES emp (id));
	`)

	order, err := cat.DependencyOrder()
	require.NoError(t, err)
	require.Len(t, order, 1)
	assert.Equal(t, "emp", order[0].Name)
}

func TestDependencyOrderReportsCycle(t *testing.T) {
	b := newBuilder(t, catalog.Options{
		Dialect:          postgres.Postgres,
		DeferForeignKeys: true,
	})
	require.NoError(t, b.ParseSQL(`
		CREATE TABLE a (id int PRIMARY KEY, b_id int REFERENCES b (id));
		CREATE TABLE b (id int PRIMARY KEY, a_id int REFERENCES a (id));
	`))
	require.NoError(t, b.Finalize())

	_, err := b.Catalog().DependencyOrder()
	var cyc *catalog.DependencyCycleError
	require.ErrorAs(t, err, &cyc)
	assert.Equal(t, []string{"public.a", "public.b"}, cyc.Tables)
}

func TestDescribe(t *testing.T) {
	cat := build(t, `
		CREATE TYPE mood AS ENUM ('up', 'down');
		CREATE TABLE users (
			id int PRIMARY KEY,
			email text NOT NULL,
			feeling mood
		);
		CREATE INDEX users_email ON users (email);
	`)

	var buf bytes.Buffer
	cat.Describe(&buf)
	out := buf.String()

	assert.Contains(t, out, "Type public.mood AS ENUM (up, down)")
	assert.Contains(t, out, "Table public.users")
	assert.Contains(t, out, "COLUMN")
	assert.Contains(t, out, "email")
	assert.Contains(t, out, "CONSTRAINT users_pkey PRIMARY KEY (id)")
	assert.Contains(t, out, "INDEX users_email (email)")
}

func TestDescribeEmptyCatalog(t *testing.T) {
	var buf bytes.Buffer
	catalog.NewCatalog(postgres.Postgres).Describe(&buf)
	assert.Equal(t, "(no tables)\n", buf.String())
}

func TestSnapshotStableAcrossFormatting(t *testing.T) {
	compact := build(t, `CREATE TABLE users (id int PRIMARY KEY, email text NOT NULL);`)
	spread := build(t, `
		CREATE TABLE users (
			id    int    PRIMARY KEY,
			email text   NOT NULL
		);
	`)

	a, err := compact.Snapshot()
	require.NoError(t, err)
	b, err := spread.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestSnapshotContents(t *testing.T) {
	cat := build(t, `
		CREATE TABLE users (id int PRIMARY KEY, email text NOT NULL DEFAULT 'x');
		CREATE TABLE posts (user_id int REFERENCES users (id));
	`)

	raw, err := cat.Snapshot()
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, "dialect: postgres")
	assert.Contains(t, out, "name: users")
	assert.Contains(t, out, "type: int")
	assert.Contains(t, out, "not_null: true")
	assert.Contains(t, out, "kind: FOREIGN KEY")
	assert.Contains(t, out, "ref_table: users")
}
