package inspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fernwood-labs/schemacat/pkg/core"
)

// ErrNotConnected is returned when an inspector is used before Connect.
var ErrNotConnected = errors.New("database connection not established")

// BaseInspector provides the database/sql plumbing shared by the
// concrete inspectors. Embed it and set DB in Connect.
type BaseInspector struct {
	DB     *sql.DB
	Cfg    core.InspectConfig
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseInspector) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseInspector) IsConnected() bool {
	return b.DB != nil
}

// QueryStrings runs a query whose result is a single string column and
// collects the values in row order.
func (b *BaseInspector) QueryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return out, nil
}
