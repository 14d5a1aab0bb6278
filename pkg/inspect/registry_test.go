package inspect

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownInspectorError_Error(t *testing.T) {
	err := &UnknownInspectorError{
		Type:      "fake_db",
		Available: []string{"postgres", "sqlite"},
	}

	msg := err.Error()

	assert.NotEmpty(t, msg, "error message should not be empty")
	assert.Contains(t, msg, "fake_db", "error should mention the unknown type")
	assert.Contains(t, msg, "postgres", "error should list registered inspectors")
}

func TestRegister(t *testing.T) {
	Register("test_inspector_internal", func(_ *slog.Logger) Inspector { return nil })

	assert.True(t, IsRegistered("test_inspector_internal"))

	factory, ok := Get("test_inspector_internal")
	assert.True(t, ok, "Get should return true after Register()")
	assert.NotNil(t, factory, "Get should return non-nil factory")

	assert.Contains(t, ListInspectors(), "test_inspector_internal")
}

func TestNew_EmptyType(t *testing.T) {
	_, err := New("", nil)
	require.Error(t, err, "New with empty type should fail")
	assert.Equal(t, "inspector type not specified", err.Error())
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New("no_such_engine", nil)
	require.Error(t, err)

	var unknown *UnknownInspectorError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "no_such_engine", unknown.Type)
}
