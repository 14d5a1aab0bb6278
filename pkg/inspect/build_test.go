package inspect

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwood-labs/schemacat/internal/testutil"
	"github.com/fernwood-labs/schemacat/pkg/core"
	"github.com/fernwood-labs/schemacat/pkg/dialect"
	pgdialect "github.com/fernwood-labs/schemacat/pkg/dialects/postgres"
)

// staticInspector serves canned schema descriptions, standing in for a
// live engine.
type staticInspector struct {
	BaseInspector
	schemas   []string
	infos     map[string]*SchemaInfo
	inspected []string
	closed    bool
}

func (s *staticInspector) Connect(_ context.Context, cfg core.InspectConfig) error {
	s.Cfg = cfg
	return nil
}

func (s *staticInspector) Close() error {
	s.closed = true
	return nil
}

func (s *staticInspector) Dialect() *dialect.Dialect {
	return pgdialect.Postgres
}

func (s *staticInspector) Schemas(_ context.Context) ([]string, error) {
	return s.schemas, nil
}

func (s *staticInspector) InspectSchema(_ context.Context, schema string) (*SchemaInfo, error) {
	s.inspected = append(s.inspected, schema)
	if info, ok := s.infos[schema]; ok {
		return info, nil
	}
	return &SchemaInfo{Name: schema}, nil
}

func newStatic() *staticInspector {
	return &staticInspector{
		schemas: []string{"app", "public"},
		infos: map[string]*SchemaInfo{
			"public": {
				Name: "public",
				Tables: []TableInfo{
					{
						Schema: "public",
						Name:   "users",
						Columns: []ColumnInfo{
							{Name: "id", Type: "integer", NotNull: true},
						},
						Constraints: []ConstraintInfo{
							{Name: "users_pkey", Type: ConstraintPrimaryKey, Columns: []string{"id"}},
						},
					},
				},
			},
			"app": {
				Name: "app",
				Tables: []TableInfo{
					{
						Schema: "app",
						Name:   "posts",
						Columns: []ColumnInfo{
							{Name: "id", Type: "integer", NotNull: true},
							{Name: "author_id", Type: "integer", NotNull: true},
						},
						Constraints: []ConstraintInfo{
							{Name: "posts_pkey", Type: ConstraintPrimaryKey, Columns: []string{"id"}},
							{
								Name: "posts_author_fk", Type: ConstraintForeignKey,
								Columns:   []string{"author_id"},
								RefSchema: "public", RefTable: "users",
							},
						},
					},
				},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	inst := newStatic()
	Register("static_build_test", func(_ *slog.Logger) Inspector { return inst })

	cat, err := Build(context.Background(), core.InspectConfig{Type: "static_build_test"}, testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.NotNil(t, cat)

	assert.True(t, inst.closed, "Build should close the connection")
	assert.Equal(t, []string{"app", "public"}, inst.inspected)

	// app comes back before public; the forward reference resolves in
	// the deferred pass.
	require.NotNil(t, cat.Table("public", "users"))
	posts := cat.Table("app", "posts")
	require.NotNil(t, posts)
	fks := posts.ForeignKeys()
	require.Len(t, fks, 1)
	assert.Equal(t, []string{"id"}, fks[0].RefColumns)
}

func TestBuildSchemaOverride(t *testing.T) {
	inst := newStatic()
	Register("static_override_test", func(_ *slog.Logger) Inspector { return inst })

	cat, err := Build(context.Background(), core.InspectConfig{Type: "static_override_test", Schema: "app"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"app"}, inst.inspected, "configured schema limits inspection")
	assert.Nil(t, cat.Schema("public"))

	posts := cat.Table("app", "posts")
	require.NotNil(t, posts)
	assert.Empty(t, posts.ForeignKeys(), "reference into an uninspected schema is dropped")
}

func TestBuildUnknownInspector(t *testing.T) {
	_, err := Build(context.Background(), core.InspectConfig{Type: "no_such_engine"}, nil)
	require.Error(t, err)

	var unknown *UnknownInspectorError
	assert.ErrorAs(t, err, &unknown)
}
