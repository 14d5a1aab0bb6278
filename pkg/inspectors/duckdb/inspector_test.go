package duckdb

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwood-labs/schemacat/pkg/catalog"
	"github.com/fernwood-labs/schemacat/pkg/inspect"
)

func TestNew(t *testing.T) {
	insp := New(nil)

	assert.NotNil(t, insp, "New() should return non-nil inspector")
	assert.Nil(t, insp.DB, "DB should be nil before Connect")
	assert.False(t, insp.IsConnected(), "should not be connected initially")
	assert.Equal(t, "duckdb", insp.Dialect().Name)

	var _ inspect.Inspector = insp
}

func TestInspector_Registry(t *testing.T) {
	assert.True(t, inspect.IsRegistered("duckdb"), "duckdb inspector should be registered")

	insp, err := inspect.New("duckdb", nil)
	require.NoError(t, err)

	dd, ok := insp.(*Inspector)
	assert.True(t, ok, "factory should return *Inspector")
	assert.NotNil(t, dd)
}

func TestInspector_NotConnected(t *testing.T) {
	ctx := context.Background()
	insp := New(nil)

	_, err := insp.Schemas(ctx)
	assert.ErrorIs(t, err, inspect.ErrNotConnected)

	_, err = insp.InspectSchema(ctx, "main")
	assert.ErrorIs(t, err, inspect.ErrNotConnected)

	assert.NoError(t, insp.Close())
}

func TestInspectSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("BASE TABLE").WillReturnRows(
		sqlmock.NewRows([]string{"table_name"}).AddRow("orders"))
	mock.ExpectQuery("information_schema.columns").WillReturnRows(
		sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "column_default"}).
			AddRow("id", "INTEGER", "NO", nil).
			AddRow("total", "DECIMAL(18,3)", "NO", "0").
			AddRow("note", "VARCHAR", "YES", nil))
	mock.ExpectQuery("duckdb_constraints").WillReturnRows(
		sqlmock.NewRows([]string{"constraint_type", "constraint_text"}).
			AddRow("PRIMARY KEY", "PRIMARY KEY(id)").
			AddRow("CHECK", "CHECK((total >= 0))"))

	insp := New(nil)
	insp.DB = db

	info, err := insp.InspectSchema(context.Background(), "main")
	require.NoError(t, err)
	require.Len(t, info.Tables, 1)

	orders := info.Tables[0]
	require.Len(t, orders.Columns, 3)
	assert.Equal(t, "DECIMAL(18,3)", orders.Columns[1].Type)
	assert.Equal(t, "0", orders.Columns[1].Default)
	assert.False(t, orders.Columns[2].NotNull)

	require.Len(t, orders.Constraints, 2)
	assert.Equal(t, "PRIMARY KEY(id)", orders.Constraints[0].Raw)
	assert.Equal(t, "CHECK((total >= 0))", orders.Constraints[1].Raw)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenderedConstraintsReplay(t *testing.T) {
	// Raw clauses pass through rendering untouched and must parse.
	schemas := []*inspect.SchemaInfo{{
		Name: "main",
		Tables: []inspect.TableInfo{{
			Schema: "main",
			Name:   "orders",
			Columns: []inspect.ColumnInfo{
				{Name: "id", Type: "INTEGER", NotNull: true},
				{Name: "total", Type: "DECIMAL(18,3)", NotNull: true},
			},
			Constraints: []inspect.ConstraintInfo{
				{Type: inspect.ConstraintPrimaryKey, Raw: "PRIMARY KEY(id)"},
				{Type: inspect.ConstraintCheck, Raw: "CHECK((total >= 0))"},
			},
		}},
	}}

	ddl := inspect.RenderDDL(schemas, New(nil).Dialect())
	assert.Contains(t, ddl, "PRIMARY KEY(id)")
	assert.Contains(t, ddl, "CHECK((total >= 0))")

	b, err := catalog.NewBuilder(catalog.Options{Dialect: New(nil).Dialect(), DeferForeignKeys: true})
	require.NoError(t, err)
	require.NoError(t, b.ParseSQL(ddl), "rendered DDL should parse:\n%s", ddl)
	require.NoError(t, b.Finalize())

	orders := b.Catalog().Table("main", "orders")
	require.NotNil(t, orders)
	require.NotNil(t, orders.PrimaryKey())
	assert.Equal(t, []string{"id"}, orders.PrimaryKey().Columns)
}
