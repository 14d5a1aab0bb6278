// Package inspect builds catalogs from live databases. An Inspector
// reads one engine's system metadata into neutral schema descriptions;
// Build renders those descriptions back to DDL and replays them
// through the catalog builder, so inspected and parsed catalogs share
// one code path and compare with Equal.
//
// Engine support lives in pkg/inspectors; importing an engine package
// registers its Inspector here.
package inspect

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fernwood-labs/schemacat/pkg/catalog"
	"github.com/fernwood-labs/schemacat/pkg/core"
	"github.com/fernwood-labs/schemacat/pkg/dialect"
)

// Inspector reads schema metadata from one database engine.
type Inspector interface {
	// Connect opens the database described by cfg.
	Connect(ctx context.Context, cfg core.InspectConfig) error

	// Close releases the connection. Safe to call when not connected.
	Close() error

	// Dialect returns the dialect catalogs built from this engine use.
	Dialect() *dialect.Dialect

	// Schemas lists user schemas, excluding the engine's own.
	Schemas(ctx context.Context) ([]string, error)

	// InspectSchema reads one schema's types, tables, constraints, and
	// indexes. Objects come back in a stable engine-defined order.
	InspectSchema(ctx context.Context, schema string) (*SchemaInfo, error)
}

// Build connects to the database described by cfg, introspects it, and
// returns the resulting catalog. cfg.Schema limits inspection to a
// single schema; otherwise every user schema is read.
//
// The catalog is built with deferred foreign keys: engines report
// objects in storage order, not dependency order.
func Build(ctx context.Context, cfg core.InspectConfig, logger *slog.Logger) (*catalog.Catalog, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	insp, err := New(cfg.Type, logger)
	if err != nil {
		return nil, err
	}
	if err := insp.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Type, err)
	}
	defer insp.Close()

	schemas := []string{cfg.Schema}
	if cfg.Schema == "" {
		schemas, err = insp.Schemas(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing schemas: %w", err)
		}
	}

	infos := make([]*SchemaInfo, 0, len(schemas))
	for _, name := range schemas {
		info, err := insp.InspectSchema(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("inspecting schema %s: %w", name, err)
		}
		logger.Debug("inspected schema", "schema", name, "tables", len(info.Tables))
		infos = append(infos, info)
	}

	ddl := RenderDDL(infos, insp.Dialect())
	b, err := catalog.NewBuilder(catalog.Options{
		Dialect:          insp.Dialect(),
		DeferForeignKeys: true,
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}
	if err := b.ParseSQL(ddl); err != nil {
		return nil, fmt.Errorf("replaying inspected schema: %w", err)
	}
	if err := b.Finalize(); err != nil {
		return nil, fmt.Errorf("resolving inspected references: %w", err)
	}
	return b.Catalog(), nil
}
